package repositories

import (
	"context"
	"time"

	"github.com/fakturly/fakturly_backend/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
	// GetUsersByIDs returns the found users keyed by UserID; missing IDs are
	// simply absent from the map.
	GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	// UpdateRefreshToken stores the hash and expiry of the current refresh
	// token. A nil expiry clears the token (logout).
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime *time.Time) error
}
