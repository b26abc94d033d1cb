package repository

import (
	"context"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

type VerticalRepository interface {
	List(ctx context.Context) ([]*entity.Vertical, error)
	GetByID(ctx context.Context, id string) (*entity.Vertical, error)
	Create(ctx context.Context, v *entity.Vertical) error
	Update(ctx context.Context, v *entity.Vertical) error
	// Delete removes the vertical only; subtitles and notes are left in place.
	Delete(ctx context.Context, id string) error
}

type SubtitleRepository interface {
	// List returns every subtitle, or only those of verticalID when it is non-empty.
	List(ctx context.Context, verticalID string) ([]*entity.Subtitle, error)
	GetByID(ctx context.Context, id string) (*entity.Subtitle, error)
	Create(ctx context.Context, s *entity.Subtitle) error
	Update(ctx context.Context, s *entity.Subtitle) error
	Delete(ctx context.Context, id string) error
}
