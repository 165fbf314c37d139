package driving

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// CreateUserRequest carries admin-created user details
type CreateUserRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// SetupRequest creates the first admin account
type SetupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserService handles user management
type UserService interface {
	// SetupRequired reports whether no users exist yet
	SetupRequired(ctx context.Context) (bool, error)

	// Setup creates the initial admin user. Fails with
	// domain.ErrAlreadyExists once any user exists.
	Setup(ctx context.Context, req *SetupRequest) (*domain.UserSummary, error)

	// Create creates a user (admin only)
	Create(ctx context.Context, actor *domain.AuthContext, req *CreateUserRequest) (*domain.UserSummary, error)

	// Get retrieves a user summary
	Get(ctx context.Context, actor *domain.AuthContext, id string) (*domain.UserSummary, error)

	// List retrieves all user summaries (admin only)
	List(ctx context.Context, actor *domain.AuthContext) ([]*domain.UserSummary, error)

	// Delete removes a user and their sessions (admin only)
	Delete(ctx context.Context, actor *domain.AuthContext, id string) error
}
