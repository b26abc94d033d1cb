// Package access holds the stateless visibility and moderation rules.
// Both the HTTP services and the client session consult it.
package access

import "github.com/oksasatya/notemaster-api/internal/domain/entity"

// VisibleVerticals returns every vertical for admins and only the assigned ones otherwise.
// Assigned ids that do not match an existing vertical are ignored.
func VisibleVerticals(u *entity.User, verticals []*entity.Vertical) []*entity.Vertical {
	out := make([]*entity.Vertical, 0, len(verticals))
	if u == nil {
		return out
	}
	for _, v := range verticals {
		if CanAccessVertical(u, v.ID) {
			out = append(out, v)
		}
	}
	return out
}

// CanAccessVertical reports whether u may browse the vertical.
func CanAccessVertical(u *entity.User, verticalID string) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	for _, id := range u.AssignedVerticals {
		if id == verticalID {
			return true
		}
	}
	return false
}

// CanViewNote: approved notes are public, authors always see their own.
func CanViewNote(u *entity.User, n *entity.Note) bool {
	if u == nil || n == nil {
		return false
	}
	return n.Status == entity.NoteApproved || n.AuthorID == u.ID
}

// VisibleNotes filters notes with CanViewNote. Admins get no extra visibility here.
func VisibleNotes(u *entity.User, notes []*entity.Note) []*entity.Note {
	out := make([]*entity.Note, 0, len(notes))
	for _, n := range notes {
		if CanViewNote(u, n) {
			out = append(out, n)
		}
	}
	return out
}

// CanMutateNote is true only for the note's author. There is no admin override.
func CanMutateNote(u *entity.User, n *entity.Note) bool {
	return u != nil && n != nil && n.AuthorID == u.ID
}

func CanManageTaxonomy(u *entity.User) bool { return u.IsAdmin() }

func CanManageUsers(u *entity.User) bool { return u.IsAdmin() }

func CanModerate(u *entity.User) bool { return u.IsAdmin() }

// StatusFor is the status a note gets when u creates or edits it.
func StatusFor(u *entity.User) entity.NoteStatus {
	if u.IsAdmin() {
		return entity.NoteApproved
	}
	return entity.NotePending
}

// CanTransition reports whether a moderation action may move a note from -> to.
func CanTransition(from, to entity.NoteStatus) bool {
	return from == entity.NotePending && (to == entity.NoteApproved || to == entity.NoteRejected)
}
