package ports

import (
	"context"
	"time"
)

// TokenRevoker is the session denylist. Logout revokes a token's id for its
// remaining lifetime; the auth middleware rejects revoked ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
