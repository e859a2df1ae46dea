package repository

import (
	"context"

	"campuscloset/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// EnsureProfile creates the projection row if it does not exist yet.
	// The auth subsystem owns the identity; this only mirrors it.
	EnsureProfile(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
}
