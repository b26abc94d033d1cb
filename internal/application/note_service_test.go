package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

func noteIDs(notes []*entity.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestNoteService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Should show approved notes and own notes to a user", func(t *testing.T) {
		f := newFixture(t)
		notes, err := f.notes.List(ctx, f.user(t, "u2"), application.NoteQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"n1", "n2"}, noteIDs(notes))
	})

	t.Run("Should give admins no extra visibility", func(t *testing.T) {
		f := newFixture(t)
		notes, err := f.notes.List(ctx, f.user(t, "u1"), application.NoteQuery{})
		require.NoError(t, err)
		assert.Equal(t, []string{"n1"}, noteIDs(notes))
	})

	t.Run("Should hide approved notes outside assigned verticals", func(t *testing.T) {
		f := newFixture(t)
		mike := f.user(t, "u3")
		notes, err := f.notes.List(ctx, mike, application.NoteQuery{})
		require.NoError(t, err)
		assert.Equal(t, []string{"n3"}, noteIDs(notes))
	})

	t.Run("Should filter by free text and company", func(t *testing.T) {
		f := newFixture(t)
		sarah := f.user(t, "u2")
		notes, err := f.notes.List(ctx, sarah, application.NoteQuery{Q: "crm"})
		require.NoError(t, err)
		assert.Equal(t, []string{"n2"}, noteIDs(notes))

		notes, err = f.notes.List(ctx, sarah, application.NoteQuery{Company: "techtrends inc."})
		require.NoError(t, err)
		assert.Equal(t, []string{"n1"}, noteIDs(notes))
	})
}

func TestNoteService_Get(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.notes.Get(ctx, f.user(t, "u2"), "n3")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	n, err := f.notes.Get(ctx, f.user(t, "u1"), "n2")
	require.NoError(t, err)
	assert.Equal(t, entity.NotePending, n.Status)
}

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Should file a user note as pending under the subtitle's vertical", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.notes.Create(ctx, f.user(t, "u2"), application.NoteInput{
			SubtitleID:  "s3",
			Question:    " What is Django? ",
			Answer:      "A web framework.",
			CompanyName: "PyCo",
			Tags:        []string{" web ", "Web", "", "python"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.Equal(t, "v2", n.VerticalID)
		assert.Equal(t, "u2", n.AuthorID)
		assert.Equal(t, entity.NotePending, n.Status)
		assert.Equal(t, "What is Django?", n.Question)
		assert.Equal(t, []string{"web", "python"}, n.Tags)
		assert.False(t, n.CreatedAt.IsZero())

		assert.Equal(t, []string{application.EventNoteSubmitted}, f.publisher.types())
		assert.Equal(t, "sarah@example.com", f.publisher.events[0].AuthorEmail)
		assert.Contains(t, f.searcher.indexed, n.ID)
	})

	t.Run("Should approve admin notes at once without a submission event", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.notes.Create(ctx, f.user(t, "u1"), application.NoteInput{SubtitleID: "s1", Question: "Q", Answer: "A"})
		require.NoError(t, err)
		assert.Equal(t, entity.NoteApproved, n.Status)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("Should refuse a vertical the user is not assigned to", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Create(ctx, f.user(t, "u3"), application.NoteInput{SubtitleID: "s1", Question: "Q", Answer: "A"})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})

	t.Run("Should reject an unknown subtitle", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Create(ctx, f.user(t, "u2"), application.NoteInput{SubtitleID: "nope", Question: "Q", Answer: "A"})
		assert.True(t, errors.Is(err, apperror.ErrValidation))
		assert.Contains(t, apperror.Fields(err), "subtitleId")
	})

	t.Run("Should report missing fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Create(ctx, f.user(t, "u2"), application.NoteInput{})
		fields := apperror.Fields(err)
		assert.Contains(t, fields, "subtitleId")
		assert.Contains(t, fields, "question")
		assert.Contains(t, fields, "answer")
	})

	t.Run("Should keep the note when publishing fails", func(t *testing.T) {
		f := newFixture(t)
		f.publisher.err = errors.New("broker down")
		n, err := f.notes.Create(ctx, f.user(t, "u2"), application.NoteInput{SubtitleID: "s1", Question: "Q", Answer: "A"})
		require.NoError(t, err)
		_, err = f.store.GetNote(ctx, n.ID)
		assert.NoError(t, err)
	})
}

func TestNoteService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Should send an approved note back to pending when the author edits it", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.notes.Update(ctx, f.user(t, "u2"), "n1", application.NoteInput{
			SubtitleID: "s1", Question: "Updated?", Answer: "Yes.", CompanyName: "TechTrends Inc.",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.NotePending, n.Status)
		assert.Equal(t, "Updated?", n.Question)
	})

	t.Run("Should move the note with its subtitle", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.notes.Update(ctx, f.user(t, "u2"), "n2", application.NoteInput{SubtitleID: "s4", Question: "Q", Answer: "A"})
		require.NoError(t, err)
		assert.Equal(t, "v2", n.VerticalID)
	})

	t.Run("Should let only the author edit", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Update(ctx, f.user(t, "u1"), "n1", application.NoteInput{SubtitleID: "s1", Question: "Q", Answer: "A"})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})

	t.Run("Should report a missing note", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Update(ctx, f.user(t, "u2"), "missing", application.NoteInput{SubtitleID: "s1", Question: "Q", Answer: "A"})
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.searcher.Index(ctx, &entity.Note{ID: "n2"}))

	err := f.notes.Delete(ctx, f.user(t, "u1"), "n2")
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	require.NoError(t, f.notes.Delete(ctx, f.user(t, "u2"), "n2"))
	_, err = f.store.GetNote(ctx, "n2")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.NotContains(t, f.searcher.indexed, "n2")
}

func TestNoteService_Moderation(t *testing.T) {
	ctx := context.Background()

	t.Run("Should approve a pending note and notify the author", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.notes.Approve(ctx, f.user(t, "u1"), "n2")
		require.NoError(t, err)
		assert.Equal(t, entity.NoteApproved, n.Status)
		assert.Equal(t, []string{application.EventNoteApproved}, f.publisher.types())

		notes, err := f.notes.List(ctx, f.user(t, "u1"), application.NoteQuery{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"n1", "n2"}, noteIDs(notes))
	})

	t.Run("Should reject a pending note", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.notes.Reject(ctx, f.user(t, "u1"), "n2")
		require.NoError(t, err)
		assert.Equal(t, entity.NoteRejected, n.Status)
		assert.Equal(t, []string{application.EventNoteRejected}, f.publisher.types())
	})

	t.Run("Should refuse notes that are not pending", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Reject(ctx, f.user(t, "u1"), "n1")
		assert.True(t, errors.Is(err, apperror.ErrConflict))
	})

	t.Run("Should let only one of several concurrent moderators win", func(t *testing.T) {
		f := newFixture(t)
		admin := f.user(t, "u1")

		const workers = 8
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					_, errs[i] = f.notes.Approve(ctx, admin, "n2")
				} else {
					_, errs[i] = f.notes.Reject(ctx, admin, "n2")
				}
			}(i)
		}
		wg.Wait()

		won := 0
		for _, err := range errs {
			if err == nil {
				won++
				continue
			}
			assert.True(t, errors.Is(err, apperror.ErrConflict))
		}
		assert.Equal(t, 1, won)
		assert.Len(t, f.publisher.types(), 1)
	})

	t.Run("Should refuse non-admins", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Approve(ctx, f.user(t, "u2"), "n2")
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})

	t.Run("Should report a missing note", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.notes.Approve(ctx, f.user(t, "u1"), "missing")
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("Should list the queue by status", func(t *testing.T) {
		f := newFixture(t)
		admin := f.user(t, "u1")
		pending, err := f.notes.ModerationQueue(ctx, admin, entity.NotePending)
		require.NoError(t, err)
		assert.Equal(t, []string{"n2"}, noteIDs(pending))

		all, err := f.notes.ModerationQueue(ctx, admin, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		_, err = f.notes.ModerationQueue(ctx, f.user(t, "u2"), "")
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
}

func TestNoteService_Sources(t *testing.T) {
	f := newFixture(t)
	sources, err := f.notes.Sources(context.Background(), f.user(t, "u2"), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"MarketWatch", "TechTrends Inc."}, sources)
}

func TestNoteService_FullTextSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should resolve index hits and drop invisible ones", func(t *testing.T) {
		f := newFixture(t)
		f.searcher.hits = []string{"n3", "n1", "gone"}
		notes, err := f.notes.FullTextSearch(ctx, f.user(t, "u2"), "growth", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"n1"}, noteIDs(notes))
	})

	t.Run("Should fall back to local matching when the index fails", func(t *testing.T) {
		f := newFixture(t)
		f.searcher.err = errSearchDown
		notes, err := f.notes.FullTextSearch(ctx, f.user(t, "u2"), "hubspot", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"n2"}, noteIDs(notes))
	})
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "B"}, application.NormalizeTags([]string{" a", "A", "B ", "", "b"}))
	assert.Empty(t, application.NormalizeTags(nil))
}
