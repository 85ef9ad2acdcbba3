package repository

import (
	"context"

	"github.com/taskvault/backend/domain"
)

// UserRepository persists user identities. Create must reject a duplicate
// email atomically (domain.ErrEmailTaken) via a store-level uniqueness
// constraint, not a check-then-insert.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
