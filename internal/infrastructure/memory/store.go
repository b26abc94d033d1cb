// Package memory is the in-process persistence gateway. It keeps the four
// collections in ordered slices and delays every call to stand in for network I/O.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

// DefaultDelay is the artificial latency applied to every operation.
const DefaultDelay = 300 * time.Millisecond

// Seed is the initial state injected into a Store.
type Seed struct {
	Users     []*entity.User
	Verticals []*entity.Vertical
	Subtitles []*entity.Subtitle
	Notes     []*entity.Note
}

type Store struct {
	mu    sync.RWMutex
	delay time.Duration

	users     []*entity.User
	verticals []*entity.Vertical
	subtitles []*entity.Subtitle
	notes     []*entity.Note
}

// New builds a store holding copies of the seed records.
func New(seed Seed, delay time.Duration) *Store {
	s := &Store{delay: delay}
	for _, u := range seed.Users {
		s.users = append(s.users, u.Clone())
	}
	for _, v := range seed.Verticals {
		s.verticals = append(s.verticals, v.Clone())
	}
	for _, st := range seed.Subtitles {
		s.subtitles = append(s.subtitles, st.Clone())
	}
	for _, n := range seed.Notes {
		s.notes = append(s.notes, n.Clone())
	}
	return s
}

// wait simulates latency. A cancelled context aborts the call.
func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Login matches the exact (email, role) pair and verifies the password.
// There is no fallback to another account with the same role.
func (s *Store) Login(ctx context.Context, cred entity.Credentials) (*entity.User, error) {
	u, err := s.findUserByEmailAndRole(ctx, cred.Email, cred.Role)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}
	if u.PasswordHash == "" || !helpers.CompareHashAndPassword(u.PasswordHash, cred.Password) {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}
	if u.Status != entity.StatusActive {
		return nil, fmt.Errorf("account inactive: %w", apperror.ErrUnauthorized)
	}
	return u, nil
}

func (s *Store) findUserByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email && u.Role == role {
			return u.Clone(), nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// --- Users ---

func (s *Store) ListUsers(ctx context.Context) ([]*entity.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.users, id, userID); i >= 0 {
		return s.users[i].Clone(), nil
	}
	return nil, apperror.NotFound("user", id)
}

func (s *Store) CreateUser(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.users, u.ID, userID) >= 0 {
		return nil, apperror.Conflict("user " + u.ID + " already exists")
	}
	for _, x := range s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return nil, apperror.Conflict("email " + u.Email + " already registered")
		}
	}
	s.users = append(s.users, u.Clone())
	return u.Clone(), nil
}

// UpdateUser replaces the stored record. An empty PasswordHash keeps the existing hash.
func (s *Store) UpdateUser(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.users, u.ID, userID)
	if i < 0 {
		return nil, apperror.NotFound("user", u.ID)
	}
	next := u.Clone()
	if next.PasswordHash == "" {
		next.PasswordHash = s.users[i].PasswordHash
	}
	s.users[i] = next
	return next.Clone(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.users, id, userID)
	if i < 0 {
		return apperror.NotFound("user", id)
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// --- Verticals ---

func (s *Store) ListVerticals(ctx context.Context) ([]*entity.Vertical, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Vertical, 0, len(s.verticals))
	for _, v := range s.verticals {
		out = append(out, v.Clone())
	}
	return out, nil
}

func (s *Store) GetVertical(ctx context.Context, id string) (*entity.Vertical, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.verticals, id, verticalID); i >= 0 {
		return s.verticals[i].Clone(), nil
	}
	return nil, apperror.NotFound("vertical", id)
}

func (s *Store) CreateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.verticals, v.ID, verticalID) >= 0 {
		return nil, apperror.Conflict("vertical " + v.ID + " already exists")
	}
	s.verticals = append(s.verticals, v.Clone())
	return v.Clone(), nil
}

func (s *Store) UpdateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.verticals, v.ID, verticalID)
	if i < 0 {
		return nil, apperror.NotFound("vertical", v.ID)
	}
	s.verticals[i] = v.Clone()
	return v.Clone(), nil
}

// DeleteVertical does not cascade to subtitles or notes.
func (s *Store) DeleteVertical(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.verticals, id, verticalID)
	if i < 0 {
		return apperror.NotFound("vertical", id)
	}
	s.verticals = append(s.verticals[:i], s.verticals[i+1:]...)
	return nil
}

// --- Subtitles ---

func (s *Store) ListSubtitles(ctx context.Context, vertical string) ([]*entity.Subtitle, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Subtitle, 0, len(s.subtitles))
	for _, st := range s.subtitles {
		if vertical == "" || st.VerticalID == vertical {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetSubtitle(ctx context.Context, id string) (*entity.Subtitle, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.subtitles, id, subtitleID); i >= 0 {
		return s.subtitles[i].Clone(), nil
	}
	return nil, apperror.NotFound("subtitle", id)
}

// CreateSubtitle requires the owning vertical to exist.
func (s *Store) CreateSubtitle(ctx context.Context, st *entity.Subtitle) (*entity.Subtitle, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.subtitles, st.ID, subtitleID) >= 0 {
		return nil, apperror.Conflict("subtitle " + st.ID + " already exists")
	}
	if indexOf(s.verticals, st.VerticalID, verticalID) < 0 {
		return nil, apperror.Invalid("verticalId", "must reference an existing vertical")
	}
	s.subtitles = append(s.subtitles, st.Clone())
	return st.Clone(), nil
}

func (s *Store) UpdateSubtitle(ctx context.Context, st *entity.Subtitle) (*entity.Subtitle, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.subtitles, st.ID, subtitleID)
	if i < 0 {
		return nil, apperror.NotFound("subtitle", st.ID)
	}
	if indexOf(s.verticals, st.VerticalID, verticalID) < 0 {
		return nil, apperror.Invalid("verticalId", "must reference an existing vertical")
	}
	s.subtitles[i] = st.Clone()
	return st.Clone(), nil
}

// DeleteSubtitle does not cascade to notes.
func (s *Store) DeleteSubtitle(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.subtitles, id, subtitleID)
	if i < 0 {
		return apperror.NotFound("subtitle", id)
	}
	s.subtitles = append(s.subtitles[:i], s.subtitles[i+1:]...)
	return nil
}

// --- Notes ---

func (s *Store) ListNotes(ctx context.Context, f repository.NoteFilter) ([]*entity.Note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if f.Match(n) {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetNote(ctx context.Context, id string) (*entity.Note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.notes, id, noteID); i >= 0 {
		return s.notes[i].Clone(), nil
	}
	return nil, apperror.NotFound("note", id)
}

func (s *Store) CreateNote(ctx context.Context, n *entity.Note) (*entity.Note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.notes, n.ID, noteID) >= 0 {
		return nil, apperror.Conflict("note " + n.ID + " already exists")
	}
	s.notes = append(s.notes, n.Clone())
	return n.Clone(), nil
}

func (s *Store) UpdateNote(ctx context.Context, n *entity.Note) (*entity.Note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.notes, n.ID, noteID)
	if i < 0 {
		return nil, apperror.NotFound("note", n.ID)
	}
	s.notes[i] = n.Clone()
	return n.Clone(), nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.notes, id, noteID)
	if i < 0 {
		return apperror.NotFound("note", id)
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return nil
}

// ApproveNote overwrites the status unconditionally.
func (s *Store) ApproveNote(ctx context.Context, id string) (*entity.Note, error) {
	return s.setNoteStatus(ctx, id, entity.NoteApproved)
}

// RejectNote overwrites the status unconditionally.
func (s *Store) RejectNote(ctx context.Context, id string) (*entity.Note, error) {
	return s.setNoteStatus(ctx, id, entity.NoteRejected)
}

func (s *Store) setNoteStatus(ctx context.Context, id string, status entity.NoteStatus) (*entity.Note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.notes, id, noteID)
	if i < 0 {
		return nil, apperror.NotFound("note", id)
	}
	s.notes[i].Status = status
	return s.notes[i].Clone(), nil
}

// transitionNote is a compare-and-set on the note status under the write lock.
func (s *Store) transitionNote(ctx context.Context, id string, from, to entity.NoteStatus) (*entity.Note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.notes, id, noteID)
	if i < 0 {
		return nil, apperror.NotFound("note", id)
	}
	if cur := s.notes[i].Status; cur != from {
		return nil, apperror.Conflict(fmt.Sprintf("note %q is %s, not %s", id, cur, from))
	}
	s.notes[i].Status = to
	return s.notes[i].Clone(), nil
}

func userID(u *entity.User) string         { return u.ID }
func verticalID(v *entity.Vertical) string { return v.ID }
func subtitleID(s *entity.Subtitle) string { return s.ID }
func noteID(n *entity.Note) string         { return n.ID }

func indexOf[T any](items []*T, id string, key func(*T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}
