// Package rediscache decorates the taxonomy repositories with a Redis read-through cache.
// Every successful write drops the cached lists so the next read goes to the backing store.
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

const (
	VerticalsKey = "taxonomy:verticals"
	// SubtitlesKey is a hash: one field per vertical id, "*" for the unfiltered list.
	SubtitlesKey = "taxonomy:subtitles"
	allField     = "*"
)

type VerticalRepository struct {
	next   repository.VerticalRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewVerticalRepository(next repository.VerticalRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *VerticalRepository {
	return &VerticalRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *VerticalRepository) List(ctx context.Context) ([]*entity.Vertical, error) {
	var cached []*entity.Vertical
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, VerticalsKey, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", VerticalsKey).Warn("vertical cache read failed")
	}
	if hit {
		return cached, nil
	}
	list, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, VerticalsKey, list, r.ttl); err != nil {
		r.logger.WithError(err).WithField("key", VerticalsKey).Warn("vertical cache write failed")
	}
	return list, nil
}

func (r *VerticalRepository) GetByID(ctx context.Context, id string) (*entity.Vertical, error) {
	return r.next.GetByID(ctx, id)
}

func (r *VerticalRepository) Create(ctx context.Context, v *entity.Vertical) error {
	if err := r.next.Create(ctx, v); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *VerticalRepository) Update(ctx context.Context, v *entity.Vertical) error {
	if err := r.next.Update(ctx, v); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *VerticalRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *VerticalRepository) invalidate(ctx context.Context) {
	if err := helpers.RedisDel(ctx, r.rdb, VerticalsKey); err != nil {
		r.logger.WithError(err).WithField("key", VerticalsKey).Warn("vertical cache invalidation failed")
	}
}

type SubtitleRepository struct {
	next   repository.SubtitleRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewSubtitleRepository(next repository.SubtitleRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *SubtitleRepository {
	return &SubtitleRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func subtitleField(verticalID string) string {
	if verticalID == "" {
		return allField
	}
	return verticalID
}

func (r *SubtitleRepository) List(ctx context.Context, verticalID string) ([]*entity.Subtitle, error) {
	field := subtitleField(verticalID)
	var cached []*entity.Subtitle
	hit, err := helpers.RedisHGetJSON(ctx, r.rdb, SubtitlesKey, field, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("field", field).Warn("subtitle cache read failed")
	}
	if hit {
		return cached, nil
	}

	list, err := r.next.List(ctx, verticalID)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisHSetJSON(ctx, r.rdb, SubtitlesKey, field, list, r.ttl); err != nil {
		r.logger.WithError(err).WithField("field", field).Warn("subtitle cache write failed")
	}
	return list, nil
}

func (r *SubtitleRepository) GetByID(ctx context.Context, id string) (*entity.Subtitle, error) {
	return r.next.GetByID(ctx, id)
}

func (r *SubtitleRepository) Create(ctx context.Context, s *entity.Subtitle) error {
	if err := r.next.Create(ctx, s); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *SubtitleRepository) Update(ctx context.Context, s *entity.Subtitle) error {
	if err := r.next.Update(ctx, s); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *SubtitleRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// invalidate drops the whole hash; an update can move a subtitle between verticals.
func (r *SubtitleRepository) invalidate(ctx context.Context) {
	if err := helpers.RedisDel(ctx, r.rdb, SubtitlesKey); err != nil {
		r.logger.WithError(err).WithField("key", SubtitlesKey).Warn("subtitle cache invalidation failed")
	}
}

var (
	_ repository.VerticalRepository = (*VerticalRepository)(nil)
	_ repository.SubtitleRepository = (*SubtitleRepository)(nil)
)
