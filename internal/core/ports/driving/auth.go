package driving

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// AuthService handles authentication operations
type AuthService interface {
	// Login authenticates a user and creates a session
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)

	// Refresh exchanges a refresh token for a new token pair
	Refresh(ctx context.Context, req *domain.RefreshRequest) (*domain.LoginResponse, error)

	// Logout terminates the session
	Logout(ctx context.Context, sessionID string) error

	// Validate parses an access token and returns the auth context
	Validate(ctx context.Context, token string) (*domain.AuthContext, error)

	// ChangePassword updates the user's password and revokes other sessions
	ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error
}
