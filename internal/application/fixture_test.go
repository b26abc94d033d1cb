package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/notemaster-api/internal/application"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/infrastructure/memory"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

const demoPassword = "password123"

type fakePublisher struct {
	mu     sync.Mutex
	events []application.NoteEvent
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, body.(application.NoteEvent))
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeSearcher struct {
	mu      sync.Mutex
	indexed map[string]*entity.Note
	hits    []string
	err     error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{indexed: map[string]*entity.Note{}}
}

func (f *fakeSearcher) Index(_ context.Context, n *entity.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[n.ID] = n.Clone()
	return nil
}

func (f *fakeSearcher) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	return nil
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return f.hits, f.err
}

var errSearchDown = errors.New("search down")

type fixture struct {
	store     *memory.Store
	publisher *fakePublisher
	searcher  *fakeSearcher
	notes     *application.NoteService
	users     *application.UserService
	verticals *application.VerticalService
	subtitles *application.SubtitleService
	dashboard *application.DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	seed, err := memory.DemoSeed(demoPassword)
	require.NoError(t, err)
	store := memory.New(seed, 0)
	logger := helpers.NopLogger()
	f := &fixture{store: store, publisher: &fakePublisher{}, searcher: newFakeSearcher()}
	f.notes = application.NewNoteService(store.NoteRepository(), store.SubtitleRepository(), store.UserRepository(),
		f.searcher, f.publisher, logger)
	f.users = application.NewUserService(store.UserRepository(), logger)
	f.verticals = application.NewVerticalService(store.VerticalRepository(), nil, logger)
	f.subtitles = application.NewSubtitleService(store.SubtitleRepository(), store.VerticalRepository(), logger)
	f.dashboard = application.NewDashboardService(store.UserRepository(), store.VerticalRepository(),
		store.SubtitleRepository(), store.NoteRepository())
	return f
}

func (f *fixture) user(t *testing.T, id string) *entity.User {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}
