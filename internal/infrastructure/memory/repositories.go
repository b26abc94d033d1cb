package memory

import (
	"context"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/internal/domain/repository"
)

// Repository adapters let the application services run on top of a Store.

type UserRepository struct{ s *Store }

func (s *Store) UserRepository() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	return r.s.ListUsers(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.s.GetUser(ctx, id)
}

func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error) {
	return r.s.findUserByEmailAndRole(ctx, email, role)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.s.CreateUser(ctx, u)
	return err
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	_, err := r.s.UpdateUser(ctx, u)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.s.DeleteUser(ctx, id)
}

type VerticalRepository struct{ s *Store }

func (s *Store) VerticalRepository() *VerticalRepository { return &VerticalRepository{s: s} }

func (r *VerticalRepository) List(ctx context.Context) ([]*entity.Vertical, error) {
	return r.s.ListVerticals(ctx)
}

func (r *VerticalRepository) GetByID(ctx context.Context, id string) (*entity.Vertical, error) {
	return r.s.GetVertical(ctx, id)
}

func (r *VerticalRepository) Create(ctx context.Context, v *entity.Vertical) error {
	_, err := r.s.CreateVertical(ctx, v)
	return err
}

func (r *VerticalRepository) Update(ctx context.Context, v *entity.Vertical) error {
	_, err := r.s.UpdateVertical(ctx, v)
	return err
}

func (r *VerticalRepository) Delete(ctx context.Context, id string) error {
	return r.s.DeleteVertical(ctx, id)
}

type SubtitleRepository struct{ s *Store }

func (s *Store) SubtitleRepository() *SubtitleRepository { return &SubtitleRepository{s: s} }

func (r *SubtitleRepository) List(ctx context.Context, verticalID string) ([]*entity.Subtitle, error) {
	return r.s.ListSubtitles(ctx, verticalID)
}

func (r *SubtitleRepository) GetByID(ctx context.Context, id string) (*entity.Subtitle, error) {
	return r.s.GetSubtitle(ctx, id)
}

func (r *SubtitleRepository) Create(ctx context.Context, st *entity.Subtitle) error {
	_, err := r.s.CreateSubtitle(ctx, st)
	return err
}

func (r *SubtitleRepository) Update(ctx context.Context, st *entity.Subtitle) error {
	_, err := r.s.UpdateSubtitle(ctx, st)
	return err
}

func (r *SubtitleRepository) Delete(ctx context.Context, id string) error {
	return r.s.DeleteSubtitle(ctx, id)
}

type NoteRepository struct{ s *Store }

func (s *Store) NoteRepository() *NoteRepository { return &NoteRepository{s: s} }

func (r *NoteRepository) List(ctx context.Context, f repository.NoteFilter) ([]*entity.Note, error) {
	return r.s.ListNotes(ctx, f)
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entity.Note, error) {
	return r.s.GetNote(ctx, id)
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	_, err := r.s.CreateNote(ctx, n)
	return err
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	_, err := r.s.UpdateNote(ctx, n)
	return err
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return r.s.DeleteNote(ctx, id)
}

func (r *NoteRepository) Transition(ctx context.Context, id string, from, to entity.NoteStatus) (*entity.Note, error) {
	return r.s.transitionNote(ctx, id, from, to)
}

var (
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.VerticalRepository = (*VerticalRepository)(nil)
	_ repository.SubtitleRepository = (*SubtitleRepository)(nil)
	_ repository.NoteRepository     = (*NoteRepository)(nil)
)
