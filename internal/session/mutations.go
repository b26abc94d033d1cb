package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/domain/access"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

func (s *Session) requireAdmin(action string, allowed func(*entity.User) bool) error {
	me, err := s.current()
	if err != nil {
		return err
	}
	if !allowed(me) {
		return apperror.Unauthorized(action)
	}
	return nil
}

func userInput(u *entity.User, password string) application.UserInput {
	return application.UserInput{
		Name: u.Name, Email: u.Email, Password: password, Role: u.Role,
		Avatar: u.Avatar, AssignedVerticals: u.AssignedVerticals, Status: u.Status,
	}
}

func verticalInput(v *entity.Vertical) application.VerticalInput {
	return application.VerticalInput{Name: v.Name, LogoURL: v.LogoURL, Description: v.Description, Status: v.Status}
}

func subtitleInput(st *entity.Subtitle) application.SubtitleInput {
	return application.SubtitleInput{VerticalID: st.VerticalID, Name: st.Name, Description: st.Description, Status: st.Status}
}

func noteInput(n *entity.Note) application.NoteInput {
	return application.NoteInput{
		SubtitleID: n.SubtitleID, Question: n.Question, Answer: n.Answer,
		CompanyName: n.CompanyName, Tags: n.Tags,
	}
}

func (s *Session) AddUser(ctx context.Context, u *entity.User, password string) (*entity.User, error) {
	if err := s.requireAdmin("add user", access.CanManageUsers); err != nil {
		return nil, err
	}
	if err := userInput(u, password).Validate(true); err != nil {
		return nil, err
	}
	in := u.Clone()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = entity.StatusActive
	}
	out, err := s.gw.CreateUser(ctx, in, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.users = append(s.users, out.Clone())
	s.mu.Unlock()
	s.notify(Event{Kind: EventUsers, ID: out.ID})
	return out, nil
}

// UpdateUser keeps the password when password is empty.
func (s *Session) UpdateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error) {
	if err := s.requireAdmin("update user", access.CanManageUsers); err != nil {
		return nil, err
	}
	if err := userInput(u, password).Validate(false); err != nil {
		return nil, err
	}
	out, err := s.gw.UpdateUser(ctx, u.Clone(), password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.users = replaceByID(s.users, out.Clone(), userID)
	if s.user != nil && s.user.ID == out.ID {
		s.user = out.Clone()
	}
	s.mu.Unlock()
	s.notify(Event{Kind: EventUsers, ID: out.ID})
	return out, nil
}

func (s *Session) DeleteUser(ctx context.Context, id string) error {
	if err := s.requireAdmin("delete user", access.CanManageUsers); err != nil {
		return err
	}
	if err := s.gw.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.users = removeByID(s.users, id, userID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventUsers, ID: id})
	return nil
}

func (s *Session) AddVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error) {
	if err := s.requireAdmin("add vertical", access.CanManageTaxonomy); err != nil {
		return nil, err
	}
	if err := verticalInput(v).Validate(); err != nil {
		return nil, err
	}
	in := v.Clone()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = entity.StatusActive
	}
	out, err := s.gw.CreateVertical(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.verticals = append(s.verticals, out.Clone())
	s.mu.Unlock()
	s.notify(Event{Kind: EventVerticals, ID: out.ID})
	return out, nil
}

func (s *Session) UpdateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error) {
	if err := s.requireAdmin("update vertical", access.CanManageTaxonomy); err != nil {
		return nil, err
	}
	if err := verticalInput(v).Validate(); err != nil {
		return nil, err
	}
	out, err := s.gw.UpdateVertical(ctx, v.Clone())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.verticals = replaceByID(s.verticals, out.Clone(), verticalID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventVerticals, ID: out.ID})
	return out, nil
}

// DeleteVertical leaves its subtitles and notes in place; there is no cascade.
func (s *Session) DeleteVertical(ctx context.Context, id string) error {
	if err := s.requireAdmin("delete vertical", access.CanManageTaxonomy); err != nil {
		return err
	}
	if err := s.gw.DeleteVertical(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.verticals = removeByID(s.verticals, id, verticalID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventVerticals, ID: id})
	return nil
}

func (s *Session) AddSubtitle(ctx context.Context, st *entity.Subtitle) (*entity.Subtitle, error) {
	if err := s.requireAdmin("add subtitle", access.CanManageTaxonomy); err != nil {
		return nil, err
	}
	if err := subtitleInput(st).Validate(); err != nil {
		return nil, err
	}
	in := st.Clone()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Status == "" {
		in.Status = entity.StatusActive
	}
	out, err := s.gw.CreateSubtitle(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.subtitles = append(s.subtitles, out.Clone())
	s.mu.Unlock()
	s.notify(Event{Kind: EventSubtitles, ID: out.ID})
	return out, nil
}

func (s *Session) UpdateSubtitle(ctx context.Context, st *entity.Subtitle) (*entity.Subtitle, error) {
	if err := s.requireAdmin("update subtitle", access.CanManageTaxonomy); err != nil {
		return nil, err
	}
	if err := subtitleInput(st).Validate(); err != nil {
		return nil, err
	}
	out, err := s.gw.UpdateSubtitle(ctx, st.Clone())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.subtitles = replaceByID(s.subtitles, out.Clone(), subtitleID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventSubtitles, ID: out.ID})
	return out, nil
}

func (s *Session) DeleteSubtitle(ctx context.Context, id string) error {
	if err := s.requireAdmin("delete subtitle", access.CanManageTaxonomy); err != nil {
		return err
	}
	if err := s.gw.DeleteSubtitle(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.subtitles = removeByID(s.subtitles, id, subtitleID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventSubtitles, ID: id})
	return nil
}

func (s *Session) subtitle(id string) *entity.Subtitle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexByID(s.subtitles, id, subtitleID); i >= 0 {
		return s.subtitles[i].Clone()
	}
	return nil
}

func (s *Session) note(id string) *entity.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexByID(s.notes, id, noteID); i >= 0 {
		return s.notes[i].Clone()
	}
	return nil
}

// AddNote files a note under its subtitle's vertical, authored by the signed-in user.
// Admin notes start APPROVED, everyone else's PENDING.
func (s *Session) AddNote(ctx context.Context, n *entity.Note) (*entity.Note, error) {
	me, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := noteInput(n).Validate(); err != nil {
		return nil, err
	}
	st := s.subtitle(n.SubtitleID)
	if st == nil {
		return nil, apperror.Invalid("subtitleId", "unknown subtitle")
	}
	if !access.CanAccessVertical(me, st.VerticalID) {
		return nil, apperror.Unauthorized("add note outside assigned verticals")
	}
	in := n.Clone()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.VerticalID = st.VerticalID
	in.AuthorID = me.ID
	in.Status = access.StatusFor(me)
	in.CreatedAt = time.Now().UTC()
	in.Tags = application.NormalizeTags(in.Tags)

	out, err := s.gw.CreateNote(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.notes = append(s.notes, out.Clone())
	s.mu.Unlock()
	s.notify(Event{Kind: EventNotes, ID: out.ID})
	return out, nil
}

// UpdateNote is author-only. The status is recomputed for the editor, so a user's edit
// sends an approved note back to PENDING.
func (s *Session) UpdateNote(ctx context.Context, n *entity.Note) (*entity.Note, error) {
	me, err := s.current()
	if err != nil {
		return nil, err
	}
	cur := s.note(n.ID)
	if cur == nil {
		return nil, apperror.NotFound("note", n.ID)
	}
	if !access.CanMutateNote(me, cur) {
		return nil, apperror.Unauthorized("edit another author's note")
	}
	in := n.Clone()
	in.AuthorID = cur.AuthorID
	in.CreatedAt = cur.CreatedAt
	in.VerticalID = cur.VerticalID
	if in.SubtitleID == "" {
		in.SubtitleID = cur.SubtitleID
	}
	if err := noteInput(in).Validate(); err != nil {
		return nil, err
	}
	if in.SubtitleID != cur.SubtitleID {
		st := s.subtitle(in.SubtitleID)
		if st == nil {
			return nil, apperror.Invalid("subtitleId", "unknown subtitle")
		}
		if !access.CanAccessVertical(me, st.VerticalID) {
			return nil, apperror.Unauthorized("move note outside assigned verticals")
		}
		in.VerticalID = st.VerticalID
	}
	in.Status = access.StatusFor(me)
	in.Tags = application.NormalizeTags(in.Tags)

	out, err := s.gw.UpdateNote(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.notes = replaceByID(s.notes, out.Clone(), noteID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventNotes, ID: out.ID})
	return out, nil
}

func (s *Session) DeleteNote(ctx context.Context, id string) error {
	me, err := s.current()
	if err != nil {
		return err
	}
	cur := s.note(id)
	if cur == nil {
		return apperror.NotFound("note", id)
	}
	if !access.CanMutateNote(me, cur) {
		return apperror.Unauthorized("delete another author's note")
	}
	if err := s.gw.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.notes = removeByID(s.notes, id, noteID)
	s.mu.Unlock()
	s.notify(Event{Kind: EventNotes, ID: id})
	return nil
}

func (s *Session) ApproveNote(ctx context.Context, id string) (*entity.Note, error) {
	return s.moderate(ctx, id, "approve note", s.gw.ApproveNote)
}

func (s *Session) RejectNote(ctx context.Context, id string) (*entity.Note, error) {
	return s.moderate(ctx, id, "reject note", s.gw.RejectNote)
}

func (s *Session) moderate(ctx context.Context, id, action string, fn func(context.Context, string) (*entity.Note, error)) (*entity.Note, error) {
	if err := s.requireAdmin(action, access.CanModerate); err != nil {
		return nil, err
	}
	out, err := fn(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.notes = replaceByID(s.notes, out.Clone(), noteID)
	s.mu.Unlock()
	s.logger.WithFields(logrus.Fields{"note_id": id, "status": out.Status}).Info("note moderated")
	s.notify(Event{Kind: EventNotes, ID: id})
	return out, nil
}
