package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
)

var noteColumns = []string{"id", "vertical_id", "subtitle_id", "author_id", "question", "answer", "company_name", "status", "created_at", "tags"}

type NoteRepository struct {
	db DB
}

func NewNoteRepository(db DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	n := &entity.Note{}
	var status string
	if err := row.Scan(&n.ID, &n.VerticalID, &n.SubtitleID, &n.AuthorID, &n.Question, &n.Answer,
		&n.CompanyName, &status, &n.CreatedAt, &n.Tags); err != nil {
		return nil, err
	}
	n.Status = entity.NoteStatus(status)
	return n, nil
}

func (r *NoteRepository) List(ctx context.Context, f repository.NoteFilter) ([]*entity.Note, error) {
	where := sq.Eq{}
	if f.VerticalID != "" {
		where["vertical_id"] = f.VerticalID
	}
	if f.SubtitleID != "" {
		where["subtitle_id"] = f.SubtitleID
	}
	if f.AuthorID != "" {
		where["author_id"] = f.AuthorID
	}
	if f.Status != "" {
		where["status"] = string(f.Status)
	}
	b := psql.Select(noteColumns...).From("notes").OrderBy("created_at DESC", "id")
	if len(where) > 0 {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building note list query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entity.Note, error) {
	query, args, err := psql.Select(noteColumns...).From("notes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building note query: %w", err)
	}
	n, err := scanNote(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("note", id, err)
	}
	return n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	b := psql.Insert("notes").Columns(noteColumns...).
		Values(n.ID, n.VerticalID, n.SubtitleID, n.AuthorID, n.Question, n.Answer, n.CompanyName,
			string(n.Status), n.CreatedAt, nonNil(n.Tags))
	return execOne(ctx, r.db, b, "note", n.ID)
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	b := psql.Update("notes").
		Set("vertical_id", n.VerticalID).
		Set("subtitle_id", n.SubtitleID).
		Set("question", n.Question).
		Set("answer", n.Answer).
		Set("company_name", n.CompanyName).
		Set("status", string(n.Status)).
		Set("tags", nonNil(n.Tags)).
		Where(sq.Eq{"id": n.ID})
	return execOne(ctx, r.db, b, "note", n.ID)
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, psql.Delete("notes").Where(sq.Eq{"id": id}), "note", id)
}

// Transition updates the status only while it still equals from. When no row
// matches, a lookup tells a missing note apart from a concurrent change.
func (r *NoteRepository) Transition(ctx context.Context, id string, from, to entity.NoteStatus) (*entity.Note, error) {
	query, args, err := psql.Update("notes").
		Set("status", string(to)).
		Where(sq.Eq{"id": id, "status": string(from)}).
		Suffix("RETURNING " + strings.Join(noteColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building note status query: %w", err)
	}
	n, err := scanNote(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		cur, gerr := r.GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return nil, apperror.Conflict(fmt.Sprintf("note %q is %s, not %s", id, cur.Status, from))
	}
	if err != nil {
		return nil, mapErr("note", id, err)
	}
	return n, nil
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
