package services

import (
	"context"
	"strings"
	"time"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
)

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

// userService implements the UserService interface
type userService struct {
	userStore    driven.UserStore
	sessionStore driven.SessionStore
	authAdapter  driven.AuthAdapter
}

// NewUserService creates a new UserService
func NewUserService(
	userStore driven.UserStore,
	sessionStore driven.SessionStore,
	authAdapter driven.AuthAdapter,
) driving.UserService {
	return &userService{
		userStore:    userStore,
		sessionStore: sessionStore,
		authAdapter:  authAdapter,
	}
}

// SetupRequired reports whether no users exist yet
func (s *userService) SetupRequired(ctx context.Context) (bool, error) {
	count, err := s.userStore.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Setup creates the initial admin user. One-time only: fails once any
// user exists.
func (s *userService) Setup(ctx context.Context, req *driving.SetupRequest) (*domain.UserSummary, error) {
	if err := validateCredentialInput(req.Email, req.Password); err != nil {
		return nil, err
	}

	count, err := s.userStore.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrAlreadyExists
	}

	return s.createUser(ctx, req.Email, req.Name, req.Password, domain.RoleAdmin)
}

// Create creates a user (admin only)
func (s *userService) Create(ctx context.Context, actor *domain.AuthContext, req *driving.CreateUserRequest) (*domain.UserSummary, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validateCredentialInput(req.Email, req.Password); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.userStore.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrAlreadyExists
	}

	return s.createUser(ctx, req.Email, req.Name, req.Password, role)
}

// Get retrieves a user summary. Members can only see themselves.
func (s *userService) Get(ctx context.Context, actor *domain.AuthContext, id string) (*domain.UserSummary, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, domain.ErrForbidden
	}

	user, err := s.userStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToSummary(), nil
}

// List retrieves all user summaries (admin only)
func (s *userService) List(ctx context.Context, actor *domain.AuthContext) ([]*domain.UserSummary, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = u.ToSummary()
	}
	return summaries, nil
}

// Delete removes a user and their sessions (admin only)
func (s *userService) Delete(ctx context.Context, actor *domain.AuthContext, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if actor.UserID == id {
		// An admin deleting themselves would lock everyone out
		return domain.ErrInvalidInput
	}

	if err := s.userStore.Delete(ctx, id); err != nil {
		return err
	}
	return s.sessionStore.DeleteByUser(ctx, id)
}

func (s *userService) createUser(ctx context.Context, email, name, password string, role domain.Role) (*domain.UserSummary, error) {
	hash, err := s.authAdapter.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           generateID(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, err
	}
	return user.ToSummary(), nil
}

func validateCredentialInput(email, password string) error {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return domain.ErrInvalidInput
	}
	if len(password) < 8 {
		return domain.ErrInvalidInput
	}
	return nil
}
