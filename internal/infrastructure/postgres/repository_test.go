package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/postgres"
)

var noteCols = []string{"id", "vertical_id", "subtitle_id", "author_id", "question", "answer", "company_name", "status", "created_at", "tags"}

func TestNoteRepository_List(t *testing.T) {
	t.Run("Should filter by subtitle and status", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)
		created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

		rows := mock.NewRows(noteCols).
			AddRow("n1", "v1", "s1", "u2", "Q?", "A.", "TechTrends Inc.", "APPROVED", created, []string{"growth"})
		mock.ExpectQuery(`SELECT (.+) FROM notes WHERE status = \$1 AND subtitle_id = \$2 ORDER BY created_at DESC, id`).
			WithArgs("APPROVED", "s1").
			WillReturnRows(rows)

		notes, err := repo.List(context.Background(), repository.NoteFilter{SubtitleID: "s1", Status: entity.NoteApproved})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "n1", notes[0].ID)
		assert.Equal(t, entity.NoteApproved, notes[0].Status)
		assert.Equal(t, []string{"growth"}, notes[0].Tags)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_GetByID(t *testing.T) {
	t.Run("Should map no rows to NotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)

		mock.ExpectQuery(`SELECT (.+) FROM notes WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		n, err := repo.GetByID(context.Background(), "missing")
		assert.Nil(t, n)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Transition(t *testing.T) {
	const update = `UPDATE notes SET status = \$1 WHERE id = \$2 AND status = \$3 RETURNING`

	t.Run("Should update a note still in the expected status", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)

		rows := mock.NewRows(noteCols).
			AddRow("n2", "v1", "s1", "u2", "Q?", "A.", "MarketWatch", "REJECTED", time.Now(), []string{})
		mock.ExpectQuery(update).
			WithArgs("REJECTED", "n2", "PENDING").
			WillReturnRows(rows)

		n, err := repo.Transition(context.Background(), "n2", entity.NotePending, entity.NoteRejected)
		require.NoError(t, err)
		assert.Equal(t, entity.NoteRejected, n.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report Conflict when another write got there first", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)

		mock.ExpectQuery(update).
			WithArgs("REJECTED", "n2", "PENDING").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM notes WHERE id = \$1`).
			WithArgs("n2").
			WillReturnRows(mock.NewRows(noteCols).
				AddRow("n2", "v1", "s1", "u2", "Q?", "A.", "MarketWatch", "APPROVED", time.Now(), []string{}))

		n, err := repo.Transition(context.Background(), "n2", entity.NotePending, entity.NoteRejected)
		assert.Nil(t, n)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report NotFound for a missing note", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)

		mock.ExpectQuery(update).
			WithArgs("APPROVED", "ghost", "PENDING").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM notes WHERE id = \$1`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.Transition(context.Background(), "ghost", entity.NotePending, entity.NoteApproved)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Delete(t *testing.T) {
	t.Run("Should delete one row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)

		mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
			WithArgs("n1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(context.Background(), "n1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should report NotFound when nothing was deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewNoteRepository(mock)

		mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
			WithArgs("nope").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err = repo.Delete(context.Background(), "nope")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVerticalRepository_Create(t *testing.T) {
	t.Run("Should insert a vertical", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewVerticalRepository(mock)

		mock.ExpectExec(`INSERT INTO verticals \(id,name,logo_url,description,status\) VALUES \(\$1,\$2,\$3,\$4,\$5\)`).
			WithArgs("v9", "Go", "", "Gophers", "ACTIVE").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.Create(context.Background(), &entity.Vertical{ID: "v9", Name: "Go", Description: "Gophers", Status: entity.StatusActive})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should map unique violations to Conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := postgres.NewVerticalRepository(mock)

		mock.ExpectExec(`INSERT INTO verticals`).
			WithArgs("v1", "Java", "", "", "ACTIVE").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err = repo.Create(context.Background(), &entity.Vertical{ID: "v1", Name: "Java", Status: entity.StatusActive})
		assert.True(t, errors.Is(err, apperror.ErrConflict))
	})
}

func TestSubtitleRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := postgres.NewSubtitleRepository(mock)

	rows := mock.NewRows([]string{"id", "vertical_id", "name", "description", "status"}).
		AddRow("s1", "v1", "Core Java", "Fundamentals of Java", "ACTIVE").
		AddRow("s2", "v1", "Spring Boot", "Enterprise Framework", "ACTIVE")
	mock.ExpectQuery(`SELECT (.+) FROM subtitles WHERE vertical_id = \$1`).
		WithArgs("v1").
		WillReturnRows(rows)

	subs, err := repo.List(context.Background(), "v1")
	require.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, "Spring Boot", subs[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailAndRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := postgres.NewUserRepository(mock)

	rows := mock.NewRows([]string{"id", "name", "email", "role", "avatar", "assigned_verticals", "status", "password_hash"}).
		AddRow("u2", "Sarah Analyst", "sarah@example.com", "USER", "", []string{"v1", "v2"}, "ACTIVE", "hash")
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1 AND role = \$2 LIMIT 1`).
		WithArgs("sarah@example.com", "USER").
		WillReturnRows(rows)

	u, err := repo.GetByEmailAndRole(context.Background(), "sarah@example.com", entity.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, u.AssignedVerticals)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateKeepsPassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := postgres.NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET name = \$1, email = \$2, role = \$3, avatar = \$4, assigned_verticals = \$5, status = \$6, updated_at = \$7 WHERE id = \$8`).
		WithArgs("Sarah", "sarah@example.com", "USER", "", []string{"v1"}, "ACTIVE", pgxmock.AnyArg(), "u2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Update(context.Background(), &entity.User{
		ID: "u2", Name: "Sarah", Email: "sarah@example.com", Role: entity.RoleUser,
		AssignedVerticals: []string{"v1"}, Status: entity.StatusActive,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
