package session

import (
	"github.com/oksasatya/notemaster-api/internal/domain/access"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

type cloner[T any] interface {
	*T
	Clone() *T
}

func cloneAll[T any, P cloner[T]](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, x := range in {
		out = append(out, P(x).Clone())
	}
	return out
}

func (s *Session) Users() []*entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.users)
}

func (s *Session) Verticals() []*entity.Vertical {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.verticals)
}

// VisibleVerticals applies the access rules for the signed-in user.
func (s *Session) VisibleVerticals() []*entity.Vertical {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(access.VisibleVerticals(s.user, s.verticals))
}

// Subtitles returns the cached subtitles, all of them when verticalID is empty.
func (s *Session) Subtitles(verticalID string) []*entity.Subtitle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Subtitle, 0, len(s.subtitles))
	for _, st := range s.subtitles {
		if verticalID == "" || st.VerticalID == verticalID {
			out = append(out, st.Clone())
		}
	}
	return out
}

func (s *Session) Notes() []*entity.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.notes)
}

// VisibleNotes is Notes filtered by the access rules for the signed-in user.
func (s *Session) VisibleNotes() []*entity.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(access.VisibleNotes(s.user, s.notes))
}

func indexByID[T any](items []*T, id string, idOf func(*T) string) int {
	for i, x := range items {
		if idOf(x) == id {
			return i
		}
	}
	return -1
}

func replaceByID[T any](items []*T, next *T, idOf func(*T) string) []*T {
	if i := indexByID(items, idOf(next), idOf); i >= 0 {
		items[i] = next
		return items
	}
	return append(items, next)
}

func removeByID[T any](items []*T, id string, idOf func(*T) string) []*T {
	if i := indexByID(items, id, idOf); i >= 0 {
		return append(items[:i:i], items[i+1:]...)
	}
	return items
}

func userID(u *entity.User) string         { return u.ID }
func verticalID(v *entity.Vertical) string { return v.ID }
func subtitleID(s *entity.Subtitle) string { return s.ID }
func noteID(n *entity.Note) string         { return n.ID }
