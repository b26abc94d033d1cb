package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/notemaster-api/internal/domain/access"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	repo "github.com/oksasatya/notemaster-api/internal/domain/repository"
)

type DashboardStats struct {
	Users         int                       `json:"users"`
	ActiveUsers   int                       `json:"activeUsers"`
	Verticals     int                       `json:"verticals"`
	Subtitles     int                       `json:"subtitles"`
	Notes         int                       `json:"notes"`
	NotesByStatus map[entity.NoteStatus]int `json:"notesByStatus"`
	NotesByAuthor map[string]int            `json:"notesByAuthor"`
}

type DashboardService struct {
	Users     repo.UserRepository
	Verticals repo.VerticalRepository
	Subtitles repo.SubtitleRepository
	Notes     repo.NoteRepository
}

func NewDashboardService(users repo.UserRepository, verticals repo.VerticalRepository,
	subtitles repo.SubtitleRepository, notes repo.NoteRepository) *DashboardService {
	return &DashboardService{Users: users, Verticals: verticals, Subtitles: subtitles, Notes: notes}
}

// Stats loads the four collections concurrently and counts them.
func (s *DashboardService) Stats(ctx context.Context, actor *entity.User) (*DashboardStats, error) {
	if !access.CanManageUsers(actor) {
		return nil, apperror.Unauthorized("view dashboard")
	}
	var (
		users     []*entity.User
		verticals []*entity.Vertical
		subtitles []*entity.Subtitle
		notes     []*entity.Note
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { users, err = s.Users.List(gctx); return })
	g.Go(func() (err error) { verticals, err = s.Verticals.List(gctx); return })
	g.Go(func() (err error) { subtitles, err = s.Subtitles.List(gctx, ""); return })
	g.Go(func() (err error) { notes, err = s.Notes.List(gctx, repo.NoteFilter{}); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := &DashboardStats{
		Users:     len(users),
		Verticals: len(verticals),
		Subtitles: len(subtitles),
		Notes:     len(notes),
		NotesByStatus: map[entity.NoteStatus]int{
			entity.NotePending:  0,
			entity.NoteApproved: 0,
			entity.NoteRejected: 0,
		},
		NotesByAuthor: map[string]int{},
	}
	for _, u := range users {
		if u.Status == entity.StatusActive {
			st.ActiveUsers++
		}
	}
	for _, n := range notes {
		st.NotesByStatus[n.Status]++
		st.NotesByAuthor[n.AuthorID]++
	}
	return st, nil
}
