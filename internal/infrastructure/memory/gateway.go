package memory

import (
	"context"
	"fmt"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

// Gateway exposes the store with plain-text password user mutations,
// the same shape the HTTP client offers.
type Gateway struct {
	*Store
}

// NewGateway wraps s.
func NewGateway(s *Store) Gateway { return Gateway{Store: s} }

func (g Gateway) CreateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error) {
	next := u.Clone()
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	next.PasswordHash = hash
	return g.Store.CreateUser(ctx, next)
}

// UpdateUser keeps the stored hash when password is empty.
func (g Gateway) UpdateUser(ctx context.Context, u *entity.User, password string) (*entity.User, error) {
	next := u.Clone()
	next.PasswordHash = ""
	if password != "" {
		hash, err := helpers.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		next.PasswordHash = hash
	}
	return g.Store.UpdateUser(ctx, next)
}

// Logout has nothing to release in memory.
func (g Gateway) Logout(context.Context) error { return nil }
