package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/memory"
	"github.com/oksasatya/notemaster-api/internal/session"
)

var _ session.Gateway = memory.Gateway{}

const password = "password123"

func newSession(t *testing.T) (*session.Session, *memory.Store) {
	t.Helper()
	seed, err := memory.DemoSeed(password)
	require.NoError(t, err)
	store := memory.New(seed, 0)
	return session.New(memory.NewGateway(store), nil), store
}

func signIn(t *testing.T, s *session.Session, email string, role entity.Role) {
	t.Helper()
	_, err := s.Login(context.Background(), entity.Credentials{Email: email, Password: password, Role: role})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
}

func noteIDs(notes []*entity.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func findNote(t *testing.T, notes []*entity.Note, id string) *entity.Note {
	t.Helper()
	for _, n := range notes {
		if n.ID == id {
			return n
		}
	}
	require.FailNow(t, "note not cached", id)
	return nil
}

func TestLoginAndLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Should refuse a role mismatch and stay signed out", func(t *testing.T) {
		s, _ := newSession(t)
		_, err := s.Login(ctx, entity.Credentials{Email: "sarah@example.com", Password: password, Role: entity.RoleAdmin})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		assert.Nil(t, s.CurrentUser())
		assert.ErrorIs(t, s.Load(ctx), apperror.ErrUnauthorized)
	})

	t.Run("Should load collections scoped to a user", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)

		require.Len(t, s.Users(), 1)
		assert.Equal(t, "u2", s.Users()[0].ID)
		assert.Len(t, s.Verticals(), 3)
		assert.Len(t, s.VisibleVerticals(), 2)
		assert.Len(t, s.Subtitles(""), 4)
		assert.Len(t, s.Subtitles("v1"), 2)
		assert.Len(t, s.Notes(), 3)
		assert.ElementsMatch(t, []string{"n1", "n2"}, noteIDs(s.VisibleNotes()))
	})

	t.Run("Should load every user for an admin", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)
		assert.Len(t, s.Users(), 3)
		assert.Len(t, s.VisibleVerticals(), 3)
	})

	t.Run("Should clear everything on logout", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		require.NoError(t, s.Logout(ctx))
		assert.Nil(t, s.CurrentUser())
		assert.Empty(t, s.Notes())
		assert.Empty(t, s.Verticals())
	})
}

func TestNoteMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("Should add a pending note under the subtitle's vertical", func(t *testing.T) {
		s, store := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)

		var events []session.Event
		s.Subscribe(func(e session.Event) { events = append(events, e) })

		n, err := s.AddNote(ctx, &entity.Note{SubtitleID: "s3", Question: "Q", Answer: "A", Tags: []string{" web ", "Web"}})
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.Equal(t, entity.NotePending, n.Status)
		assert.Equal(t, "v2", n.VerticalID)
		assert.Equal(t, "u2", n.AuthorID)
		assert.Equal(t, []string{"web"}, n.Tags)
		assert.Len(t, s.Notes(), 4)
		require.Len(t, events, 1)
		assert.Equal(t, session.Event{Kind: session.EventNotes, ID: n.ID}, events[0])

		stored, err := store.GetNote(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "Q", stored.Question)
	})

	t.Run("Should reject an unknown subtitle without touching the cache", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		_, err := s.AddNote(ctx, &entity.Note{SubtitleID: "nope", Question: "Q", Answer: "A"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Len(t, s.Notes(), 3)
	})

	t.Run("Should send an edited approved note back to pending", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		n1 := s.Notes()[0]
		require.Equal(t, "n1", n1.ID)
		n1.Answer = "Updated"
		out, err := s.UpdateNote(ctx, n1)
		require.NoError(t, err)
		assert.Equal(t, entity.NotePending, out.Status)
		assert.Equal(t, "u2", out.AuthorID)
	})

	t.Run("Should refuse edits by someone other than the author", func(t *testing.T) {
		s, store := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		assert.ErrorIs(t, s.DeleteNote(ctx, "n3"), apperror.ErrUnauthorized)
		_, err := store.GetNote(ctx, "n3")
		assert.NoError(t, err)
		assert.ErrorIs(t, s.DeleteNote(ctx, "missing"), apperror.ErrNotFound)
	})

	t.Run("Should let only admins moderate", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		_, err := s.ApproveNote(ctx, "n2")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)

		admin, _ := newSession(t)
		signIn(t, admin, "admin@example.com", entity.RoleAdmin)
		out, err := admin.RejectNote(ctx, "n2")
		require.NoError(t, err)
		assert.Equal(t, entity.NoteRejected, out.Status)
		for _, n := range admin.Notes() {
			if n.ID == "n2" {
				assert.Equal(t, entity.NoteRejected, n.Status)
			}
		}
		_, err = admin.ApproveNote(ctx, "missing")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Should reject a note with missing fields without touching the cache", func(t *testing.T) {
		s, store := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		_, err := s.AddNote(ctx, &entity.Note{SubtitleID: "s1"})
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "question")
		assert.Contains(t, verr.Fields, "answer")
		assert.Len(t, s.Notes(), 3)

		n2 := findNote(t, s.Notes(), "n2")
		n2.Question = "  "
		_, err = s.UpdateNote(ctx, n2)
		assert.ErrorIs(t, err, apperror.ErrValidation)
		stored, err := store.GetNote(ctx, "n2")
		require.NoError(t, err)
		assert.NotEmpty(t, stored.Question)
	})

	t.Run("Should refuse moving a note outside assigned verticals", func(t *testing.T) {
		admin, store := newSession(t)
		signIn(t, admin, "admin@example.com", entity.RoleAdmin)
		st, err := admin.AddSubtitle(ctx, &entity.Subtitle{VerticalID: "v3", Name: "Hooks"})
		require.NoError(t, err)

		s := session.New(memory.NewGateway(store), nil)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		n2 := findNote(t, s.Notes(), "n2")
		n2.SubtitleID = st.ID
		_, err = s.UpdateNote(ctx, n2)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)

		stored, err := store.GetNote(ctx, "n2")
		require.NoError(t, err)
		assert.Equal(t, "s1", stored.SubtitleID)
		assert.Equal(t, "v1", stored.VerticalID)
		assert.Equal(t, "s1", findNote(t, s.Notes(), "n2").SubtitleID)
	})

	t.Run("Should approve notes an admin writes straight away", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)
		n, err := s.AddNote(ctx, &entity.Note{SubtitleID: "s1", Question: "Q", Answer: "A"})
		require.NoError(t, err)
		assert.Equal(t, entity.NoteApproved, n.Status)
	})
}

func TestTaxonomyAndUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("Should guard admin mutations before calling the gateway", func(t *testing.T) {
		s, store := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		_, err := s.AddVertical(ctx, &entity.Vertical{Name: "Go"})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		vs, err := store.ListVerticals(ctx)
		require.NoError(t, err)
		assert.Len(t, vs, 3)
	})

	t.Run("Should reject taxonomy and users with missing fields", func(t *testing.T) {
		s, store := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)

		_, err := s.AddVertical(ctx, &entity.Vertical{})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = s.AddSubtitle(ctx, &entity.Subtitle{Name: "Orphan"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = s.AddUser(ctx, &entity.User{Name: "Nina", Email: "nina@example.com", Role: entity.RoleUser}, "")
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = s.UpdateVertical(ctx, &entity.Vertical{ID: "v1"})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		assert.Len(t, s.Verticals(), 3)
		assert.Len(t, s.Subtitles(""), 4)
		assert.Len(t, s.Users(), 3)
		vs, err := store.ListVerticals(ctx)
		require.NoError(t, err)
		assert.Len(t, vs, 3)
		v1, err := store.GetVertical(ctx, "v1")
		require.NoError(t, err)
		assert.NotEmpty(t, v1.Name)
	})

	t.Run("Should keep the cache when the gateway fails", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)
		before := s.Verticals()
		_, err := s.UpdateVertical(ctx, &entity.Vertical{ID: "v9", Name: "Ghost"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Equal(t, before, s.Verticals())
	})

	t.Run("Should not cascade a vertical delete", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)
		require.NoError(t, s.DeleteVertical(ctx, "v1"))
		assert.Len(t, s.Verticals(), 2)
		assert.Len(t, s.Subtitles("v1"), 2)
	})

	t.Run("Should create a user who can sign in", func(t *testing.T) {
		s, store := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)
		u, err := s.AddUser(ctx, &entity.User{Name: "Nina", Email: "nina@example.com", Role: entity.RoleUser, AssignedVerticals: []string{"v3"}}, "secret-pass")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusActive, u.Status)
		assert.Len(t, s.Users(), 4)

		nina := session.New(memory.NewGateway(store), nil)
		_, err = nina.Login(ctx, entity.Credentials{Email: "nina@example.com", Password: "secret-pass", Role: entity.RoleUser})
		require.NoError(t, err)
		require.NoError(t, nina.Load(ctx))
		require.Len(t, nina.VisibleVerticals(), 1)
		assert.Equal(t, "v3", nina.VisibleVerticals()[0].ID)
	})

	t.Run("Should stop notifying after unsubscribe", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "admin@example.com", entity.RoleAdmin)
		calls := 0
		stop := s.Subscribe(func(session.Event) { calls++ })
		_, err := s.AddSubtitle(ctx, &entity.Subtitle{VerticalID: "v3", Name: "Hooks"})
		require.NoError(t, err)
		stop()
		require.NoError(t, s.DeleteSubtitle(ctx, "s4"))
		assert.Equal(t, 1, calls)
	})

	t.Run("Should return copies from views", func(t *testing.T) {
		s, _ := newSession(t)
		signIn(t, s, "sarah@example.com", entity.RoleUser)
		s.Notes()[0].Question = "mutated"
		s.Users()[0].AssignedVerticals[0] = "v3"
		assert.NotEqual(t, "mutated", s.Notes()[0].Question)
		assert.Equal(t, "v1", s.CurrentUser().AssignedVerticals[0])
	})
}
