package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
)

var userColumns = []string{"id", "name", "email", "role", "avatar", "assigned_verticals", "status", "password_hash"}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role, status string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Avatar, &u.AssignedVerticals, &status, &u.PasswordHash); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Status = entity.RecordStatus(status)
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user list query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, key string, where sq.Sqlizer) (*entity.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user query: %w", err)
	}
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapErr("user", key, err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, id, sq.Eq{"id": id})
}

func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	return r.getOne(ctx, email, sq.Eq{"email": email, "role": string(role)})
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now()
	b := psql.Insert("users").
		Columns(append(userColumns, "created_at", "updated_at")...).
		Values(u.ID, u.Name, u.Email, string(u.Role), u.Avatar, nonNil(u.AssignedVerticals), string(u.Status), u.PasswordHash, now, now)
	return execOne(ctx, r.db, b, "user", u.ID)
}

// Update keeps the stored password hash when u.PasswordHash is empty.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	b := psql.Update("users").
		Set("name", u.Name).
		Set("email", u.Email).
		Set("role", string(u.Role)).
		Set("avatar", u.Avatar).
		Set("assigned_verticals", nonNil(u.AssignedVerticals)).
		Set("status", string(u.Status)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": u.ID})
	if u.PasswordHash != "" {
		b = b.Set("password_hash", u.PasswordHash)
	}
	return execOne(ctx, r.db, b, "user", u.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, psql.Delete("users").Where(sq.Eq{"id": id}), "user", id)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)
