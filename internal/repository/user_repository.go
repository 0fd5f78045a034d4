package repository

import (
	"context"

	"anishelf/internal/domain/entity"
)

// UserRepository manages registered accounts.
// Users are never hard-deleted in the application.
type UserRepository interface {
	// Create inserts a new user. Returns entity.ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail returns (nil, nil) when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Get returns (nil, nil) when no user has the given ID.
	Get(ctx context.Context, id int64) (*entity.User, error)
}
