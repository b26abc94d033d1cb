package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
)

// DB is the subset of pgxpool.Pool the repositories need. pgxmock satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
)

// mapErr converts driver errors into apperror kinds.
func mapErr(kind, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(kind, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperror.Conflict(fmt.Sprintf("%s %q already exists", kind, id))
		case codeFKViolation:
			return apperror.Invalid(kind, "references a missing record")
		}
	}
	return fmt.Errorf("%s %q: %w", kind, id, err)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db DB, b sq.Sqlizer, kind, id string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building %s query: %w", kind, err)
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound(kind, id)
	}
	return nil
}
