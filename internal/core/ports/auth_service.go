package ports

import (
	"context"
	"time"

	"github.com/teamflow/teamflow-api/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfileInput carries the self-service profile changes. Empty fields
// are left untouched; a non-empty Password is re-hashed.
type UpdateProfileInput struct {
	Username  string
	Email     string
	AvatarURL string
	Password  string
}

// Session is an issued credential: the signed token plus the attributes the
// transport layer needs to build the cookie and later revoke it.
type Session struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// AuthService implements registration, login, logout and profile management.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *Session, error)
	Login(ctx context.Context, email, password string) (*domain.User, *Session, error)
	// Logout revokes the session's token id until its natural expiry.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
