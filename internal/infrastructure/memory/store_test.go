package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	seed, err := memory.DemoSeed("password123")
	require.NoError(t, err)
	return memory.New(seed, 0)
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("Should match exact email and role", func(t *testing.T) {
		u, err := s.Login(ctx, entity.Credentials{Email: "sarah@example.com", Password: "password123", Role: entity.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, "u2", u.ID)
	})
	t.Run("Should not fall back to another user with the same role", func(t *testing.T) {
		_, err := s.Login(ctx, entity.Credentials{Email: "nobody@example.com", Password: "password123", Role: entity.RoleAdmin})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
	t.Run("Should reject a role mismatch", func(t *testing.T) {
		_, err := s.Login(ctx, entity.Credentials{Email: "sarah@example.com", Password: "password123", Role: entity.RoleAdmin})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
	t.Run("Should reject a wrong password", func(t *testing.T) {
		_, err := s.Login(ctx, entity.Credentials{Email: "admin@example.com", Password: "nope", Role: entity.RoleAdmin})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
	t.Run("Should reject inactive accounts", func(t *testing.T) {
		_, err := s.Login(ctx, entity.Credentials{Email: "mike@example.com", Password: "password123", Role: entity.RoleUser})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
	t.Run("Should not match an email that differs in case", func(t *testing.T) {
		_, err := s.Login(ctx, entity.Credentials{Email: "Sarah@Example.com", Password: "password123", Role: entity.RoleUser})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.ApproveNote(ctx, "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = s.RejectNote(ctx, "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = s.UpdateNote(ctx, &entity.Note{ID: "missing"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteNote(ctx, "missing"), apperror.ErrNotFound))
	_, err = s.UpdateVertical(ctx, &entity.Vertical{ID: "missing"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteSubtitle(ctx, "missing"), apperror.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteUser(ctx, "missing"), apperror.ErrNotFound))
}

func TestStore_ApproveThenReject(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.ApproveNote(ctx, "n2")
	require.NoError(t, err)
	n, err := s.RejectNote(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, entity.NoteRejected, n.Status)

	got, err := s.GetNote(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, entity.NoteRejected, got.Status)
}

func TestNoteRepository_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("Should move a note out of the expected status", func(t *testing.T) {
		repo := newStore(t).NoteRepository()
		n, err := repo.Transition(ctx, "n2", entity.NotePending, entity.NoteApproved)
		require.NoError(t, err)
		assert.Equal(t, entity.NoteApproved, n.Status)
	})
	t.Run("Should refuse when the status already changed", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ApproveNote(ctx, "n2")
		require.NoError(t, err)
		_, err = s.NoteRepository().Transition(ctx, "n2", entity.NotePending, entity.NoteRejected)
		assert.True(t, errors.Is(err, apperror.ErrConflict))
		n, err := s.GetNote(ctx, "n2")
		require.NoError(t, err)
		assert.Equal(t, entity.NoteApproved, n.Status)
	})
	t.Run("Should report a missing note", func(t *testing.T) {
		_, err := newStore(t).NoteRepository().Transition(ctx, "missing", entity.NotePending, entity.NoteApproved)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestStore_DeleteNote(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.DeleteNote(ctx, "n1"))
	notes, err := s.ListNotes(ctx, repository.NoteFilter{})
	require.NoError(t, err)
	for _, n := range notes {
		assert.NotEqual(t, "n1", n.ID)
	}
	assert.Len(t, notes, 2)
}

func TestStore_DeleteVerticalDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.DeleteVertical(ctx, "v1"))
	subs, err := s.ListSubtitles(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, subs, 2, "orphaned subtitles stay in place")
	notes, err := s.ListNotes(ctx, repository.NoteFilter{VerticalID: "v1"})
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestStore_CreateSubtitleRequiresVertical(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.CreateSubtitle(ctx, &entity.Subtitle{ID: "s9", VerticalID: "nope", Name: "x"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, apperror.Fields(err), "verticalId")
}

func TestStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.CreateVertical(ctx, &entity.Vertical{ID: "v1", Name: "dup"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	n, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	n.Tags[0] = "mutated"
	n.Status = entity.NoteRejected

	again, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "market size", again.Tags[0])
	assert.Equal(t, entity.NoteApproved, again.Status)
}

func TestStore_Delay(t *testing.T) {
	t.Run("Should wait the configured delay", func(t *testing.T) {
		s := memory.New(memory.Seed{}, 20*time.Millisecond)
		start := time.Now()
		_, err := s.ListVerticals(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
	t.Run("Should abort when the context is cancelled", func(t *testing.T) {
		s := memory.New(memory.Seed{}, time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.ListVerticals(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
