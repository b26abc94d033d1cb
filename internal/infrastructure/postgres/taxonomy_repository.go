package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
)

var (
	verticalColumns = []string{"id", "name", "logo_url", "description", "status"}
	subtitleColumns = []string{"id", "vertical_id", "name", "description", "status"}
)

type VerticalRepository struct {
	db DB
}

func NewVerticalRepository(db DB) *VerticalRepository {
	return &VerticalRepository{db: db}
}

func scanVertical(row pgx.Row) (*entity.Vertical, error) {
	v := &entity.Vertical{}
	var status string
	if err := row.Scan(&v.ID, &v.Name, &v.LogoURL, &v.Description, &status); err != nil {
		return nil, err
	}
	v.Status = entity.RecordStatus(status)
	return v, nil
}

func (r *VerticalRepository) List(ctx context.Context) ([]*entity.Vertical, error) {
	query, args, err := psql.Select(verticalColumns...).From("verticals").OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building vertical list query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing verticals: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Vertical, 0)
	for rows.Next() {
		v, err := scanVertical(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vertical: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VerticalRepository) GetByID(ctx context.Context, id string) (*entity.Vertical, error) {
	query, args, err := psql.Select(verticalColumns...).From("verticals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building vertical query: %w", err)
	}
	v, err := scanVertical(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("vertical", id, err)
	}
	return v, nil
}

func (r *VerticalRepository) Create(ctx context.Context, v *entity.Vertical) error {
	b := psql.Insert("verticals").Columns(verticalColumns...).
		Values(v.ID, v.Name, v.LogoURL, v.Description, string(v.Status))
	return execOne(ctx, r.db, b, "vertical", v.ID)
}

func (r *VerticalRepository) Update(ctx context.Context, v *entity.Vertical) error {
	b := psql.Update("verticals").
		Set("name", v.Name).
		Set("logo_url", v.LogoURL).
		Set("description", v.Description).
		Set("status", string(v.Status)).
		Where(sq.Eq{"id": v.ID})
	return execOne(ctx, r.db, b, "vertical", v.ID)
}

func (r *VerticalRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, psql.Delete("verticals").Where(sq.Eq{"id": id}), "vertical", id)
}

type SubtitleRepository struct {
	db DB
}

func NewSubtitleRepository(db DB) *SubtitleRepository {
	return &SubtitleRepository{db: db}
}

func scanSubtitle(row pgx.Row) (*entity.Subtitle, error) {
	s := &entity.Subtitle{}
	var status string
	if err := row.Scan(&s.ID, &s.VerticalID, &s.Name, &s.Description, &status); err != nil {
		return nil, err
	}
	s.Status = entity.RecordStatus(status)
	return s, nil
}

func (r *SubtitleRepository) List(ctx context.Context, verticalID string) ([]*entity.Subtitle, error) {
	b := psql.Select(subtitleColumns...).From("subtitles").OrderBy("created_at", "id")
	if verticalID != "" {
		b = b.Where(sq.Eq{"vertical_id": verticalID})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building subtitle list query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subtitles: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Subtitle, 0)
	for rows.Next() {
		s, err := scanSubtitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subtitle: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubtitleRepository) GetByID(ctx context.Context, id string) (*entity.Subtitle, error) {
	query, args, err := psql.Select(subtitleColumns...).From("subtitles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building subtitle query: %w", err)
	}
	s, err := scanSubtitle(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("subtitle", id, err)
	}
	return s, nil
}

func (r *SubtitleRepository) Create(ctx context.Context, s *entity.Subtitle) error {
	b := psql.Insert("subtitles").Columns(subtitleColumns...).
		Values(s.ID, s.VerticalID, s.Name, s.Description, string(s.Status))
	return execOne(ctx, r.db, b, "subtitle", s.ID)
}

func (r *SubtitleRepository) Update(ctx context.Context, s *entity.Subtitle) error {
	b := psql.Update("subtitles").
		Set("vertical_id", s.VerticalID).
		Set("name", s.Name).
		Set("description", s.Description).
		Set("status", string(s.Status)).
		Where(sq.Eq{"id": s.ID})
	return execOne(ctx, r.db, b, "subtitle", s.ID)
}

func (r *SubtitleRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, psql.Delete("subtitles").Where(sq.Eq{"id": id}), "subtitle", id)
}

var (
	_ repository.VerticalRepository = (*VerticalRepository)(nil)
	_ repository.SubtitleRepository = (*SubtitleRepository)(nil)
)
