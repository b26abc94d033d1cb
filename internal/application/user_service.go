package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/domain/access"
	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	repo "github.com/oksasatya/notemaster-api/internal/domain/repository"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

type UserService struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Logger: logger}
}

// UserInput is shared by create and update. An empty Password on update keeps the current one.
type UserInput struct {
	Name              string
	Email             string
	Password          string
	Role              entity.Role
	Avatar            string
	AssignedVerticals []string
	Status            entity.RecordStatus
}

// Validate reports missing required fields. A password is only required when creating.
func (in UserInput) Validate(creating bool) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "is required"
	}
	if !in.Role.Valid() {
		fields["role"] = "must be ADMIN or USER"
	}
	if in.Status != "" && !in.Status.Valid() {
		fields["status"] = "must be ACTIVE or INACTIVE"
	}
	if creating && in.Password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return &apperror.ValidationError{Fields: fields}
	}
	return nil
}

func (s *UserService) guard(actor *entity.User) error {
	if !access.CanManageUsers(actor) {
		return apperror.Unauthorized("manage users")
	}
	return nil
}

func (s *UserService) List(ctx context.Context, actor *entity.User) ([]*entity.User, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	return s.Users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, actor *entity.User, id string) (*entity.User, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, id)
}

// Create assigns a fresh id, defaults the status to ACTIVE and hashes the password.
func (s *UserService) Create(ctx context.Context, actor *entity.User, in UserInput) (*entity.User, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &entity.User{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Email:             strings.TrimSpace(in.Email),
		Role:              in.Role,
		Avatar:            in.Avatar,
		AssignedVerticals: uniqueIDs(in.AssignedVerticals),
		Status:            in.Status,
		PasswordHash:      hash,
	}
	if u.Status == "" {
		u.Status = entity.StatusActive
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "by": actor.ID}).Info("user created")
	return u, nil
}

func (s *UserService) Update(ctx context.Context, actor *entity.User, id string, in UserInput) (*entity.User, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	cur, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cur.Name = strings.TrimSpace(in.Name)
	cur.Email = strings.TrimSpace(in.Email)
	cur.Role = in.Role
	cur.Avatar = in.Avatar
	cur.AssignedVerticals = uniqueIDs(in.AssignedVerticals)
	if in.Status != "" {
		cur.Status = in.Status
	}
	cur.PasswordHash = ""
	if in.Password != "" {
		if cur.PasswordHash, err = helpers.HashPassword(in.Password); err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
	}
	if err := s.Users.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *UserService) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := s.guard(actor); err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": id, "by": actor.ID}).Info("user deleted")
	return nil
}

// Search matches q case-insensitively against name and email.
func (s *UserService) Search(ctx context.Context, actor *entity.User, q string) ([]*entity.User, error) {
	all, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all, nil
	}
	out := make([]*entity.User, 0)
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
