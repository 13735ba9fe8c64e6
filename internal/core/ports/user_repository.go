package ports

import (
	"context"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username or email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches on the stored lowercase email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns the user directory, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	// Update persists self-service profile changes.
	Update(ctx context.Context, user *domain.User) error
}
