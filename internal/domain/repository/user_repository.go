package repository

import (
	"context"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmailAndRole matches the exact (email, role) pair.
	GetByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
