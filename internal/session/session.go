// Package session keeps the signed-in user and a local copy of the four
// collections, changing the copy only after the gateway accepted a mutation.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
)

// Gateway is the remote (or in-memory) persistence contract.
// memory.Gateway and client.Client both satisfy it.
type Gateway interface {
	Login(ctx context.Context, cred entity.Credentials) (*entity.User, error)
	Logout(ctx context.Context) error

	ListUsers(ctx context.Context) ([]*entity.User, error)
	CreateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error)
	UpdateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListVerticals(ctx context.Context) ([]*entity.Vertical, error)
	CreateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error)
	UpdateVertical(ctx context.Context, v *entity.Vertical) (*entity.Vertical, error)
	DeleteVertical(ctx context.Context, id string) error

	ListSubtitles(ctx context.Context, verticalID string) ([]*entity.Subtitle, error)
	CreateSubtitle(ctx context.Context, s *entity.Subtitle) (*entity.Subtitle, error)
	UpdateSubtitle(ctx context.Context, s *entity.Subtitle) (*entity.Subtitle, error)
	DeleteSubtitle(ctx context.Context, id string) error

	ListNotes(ctx context.Context, f repository.NoteFilter) ([]*entity.Note, error)
	CreateNote(ctx context.Context, n *entity.Note) (*entity.Note, error)
	UpdateNote(ctx context.Context, n *entity.Note) (*entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ApproveNote(ctx context.Context, id string) (*entity.Note, error)
	RejectNote(ctx context.Context, id string) (*entity.Note, error)
}

type EventKind string

const (
	EventLogin     EventKind = "login"
	EventLogout    EventKind = "logout"
	EventLoaded    EventKind = "loaded"
	EventUsers     EventKind = "users"
	EventVerticals EventKind = "verticals"
	EventSubtitles EventKind = "subtitles"
	EventNotes     EventKind = "notes"
)

// Event tells observers which part of the cache changed. ID is empty for bulk changes.
type Event struct {
	Kind EventKind
	ID   string
}

type Session struct {
	gw     Gateway
	logger *logrus.Logger

	mu        sync.RWMutex
	user      *entity.User
	users     []*entity.User
	verticals []*entity.Vertical
	subtitles []*entity.Subtitle
	notes     []*entity.Note

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func New(gw Gateway, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Session{gw: gw, logger: logger, subs: map[int]func(Event){}}
}

// Subscribe registers fn for every cache change. Call the returned func to stop.
// fn runs synchronously after the change and must not call back into mutations.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Login authenticates and remembers the user. Collections are fetched by Load.
func (s *Session) Login(ctx context.Context, cred entity.Credentials) (*entity.User, error) {
	u, err := s.gw.Login(ctx, cred)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = u.Clone()
	s.mu.Unlock()
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("signed in")
	s.notify(Event{Kind: EventLogin, ID: u.ID})
	return u.Clone(), nil
}

// Logout clears the user and every cached collection, even when the gateway call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.gw.Logout(ctx)
	s.mu.Lock()
	s.user = nil
	s.users, s.verticals, s.subtitles, s.notes = nil, nil, nil, nil
	s.mu.Unlock()
	s.notify(Event{Kind: EventLogout})
	return err
}

// CurrentUser returns a copy of the signed-in user or nil.
func (s *Session) CurrentUser() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Session) current() (*entity.User, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, apperror.Unauthorized("not signed in")
	}
	return u, nil
}

// Load fetches all four collections in parallel and replaces the cache only if every fetch succeeds.
// A non-admin only sees itself in the user list.
func (s *Session) Load(ctx context.Context) error {
	me, err := s.current()
	if err != nil {
		return err
	}
	var (
		users     []*entity.User
		verticals []*entity.Vertical
		subtitles []*entity.Subtitle
		notes     []*entity.Note
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if !me.IsAdmin() {
			users = []*entity.User{me}
			return nil
		}
		var err error
		users, err = s.gw.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		verticals, err = s.gw.ListVerticals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		subtitles, err = s.gw.ListSubtitles(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.gw.ListNotes(gctx, repository.NoteFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}

	s.mu.Lock()
	s.users, s.verticals, s.subtitles, s.notes = users, verticals, subtitles, notes
	s.mu.Unlock()
	s.logger.WithFields(logrus.Fields{
		"users":     len(users),
		"verticals": len(verticals),
		"subtitles": len(subtitles),
		"notes":     len(notes),
	}).Debug("session loaded")
	s.notify(Event{Kind: EventLoaded})
	return nil
}

// Resync reloads everything from the gateway, dropping any stale local state.
func (s *Session) Resync(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		s.logger.WithError(err).Warn("resync failed, keeping cached data")
		return err
	}
	return nil
}
