package repository

import (
	"context"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

// NoteFilter narrows a note listing. Empty fields match everything.
type NoteFilter struct {
	VerticalID string
	SubtitleID string
	AuthorID   string
	Status     entity.NoteStatus
}

// Match reports whether n satisfies the filter.
func (f NoteFilter) Match(n *entity.Note) bool {
	if f.VerticalID != "" && n.VerticalID != f.VerticalID {
		return false
	}
	if f.SubtitleID != "" && n.SubtitleID != f.SubtitleID {
		return false
	}
	if f.AuthorID != "" && n.AuthorID != f.AuthorID {
		return false
	}
	if f.Status != "" && n.Status != f.Status {
		return false
	}
	return true
}

type NoteRepository interface {
	List(ctx context.Context, f NoteFilter) ([]*entity.Note, error)
	GetByID(ctx context.Context, id string) (*entity.Note, error)
	Create(ctx context.Context, n *entity.Note) error
	Update(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, id string) error
	// Transition moves a note from one status to another in a single write.
	// It returns Conflict when the stored status is no longer from.
	Transition(ctx context.Context, id string, from, to entity.NoteStatus) (*entity.Note, error)
}
