package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven/mocks"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
)

type authFixture struct {
	svc          driving.AuthService
	userStore    *mocks.MockUserStore
	sessionStore *mocks.MockSessionStore
	authAdapter  *mocks.MockAuthAdapter
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	userStore := mocks.NewMockUserStore()
	sessionStore := mocks.NewMockSessionStore()
	authAdapter := mocks.NewMockAuthAdapter()
	return &authFixture{
		svc:          NewAuthService(userStore, sessionStore, authAdapter),
		userStore:    userStore,
		sessionStore: sessionStore,
		authAdapter:  authAdapter,
	}
}

func (f *authFixture) addUser(t *testing.T, email, password string, active bool) *domain.User {
	t.Helper()
	hash, _ := f.authAdapter.HashPassword(password)
	user := &domain.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         domain.RoleMember,
		Active:       active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_ = f.userStore.Save(context.Background(), user)
	return user
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "alice@example.com", "secret-password", true)

	resp, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Error("expected token pair")
	}
	if resp.User.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, resp.User.ID)
	}
	if f.sessionStore.Count() != 1 {
		t.Errorf("expected 1 session, got %d", f.sessionStore.Count())
	}

	// Token validates back to the same user
	authCtx, err := f.svc.Validate(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if authCtx.UserID != user.ID {
		t.Errorf("expected user %s in context, got %s", user.ID, authCtx.UserID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice@example.com", "secret-password", true)

	_, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice@example.com", "secret-password", false)

	_, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice@example.com", "secret-password", true)

	first, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	second, err := f.svc.Refresh(context.Background(), &domain.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if f.sessionStore.Count() != 1 {
		t.Errorf("old session should be gone, got %d sessions", f.sessionStore.Count())
	}

	// Used refresh token is dead
	_, err = f.svc.Refresh(context.Background(), &domain.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for reused refresh token, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice@example.com", "secret-password", true)

	resp, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	authCtx, err := f.svc.Validate(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if err := f.svc.Logout(context.Background(), authCtx.SessionID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	// Token still parses but the session is gone
	if _, err := f.svc.Validate(context.Background(), resp.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "alice@example.com", "old-password", true)

	if _, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "old-password",
	}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	err := f.svc.ChangePassword(context.Background(), user.ID, &domain.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	// All sessions revoked
	if f.sessionStore.Count() != 0 {
		t.Errorf("expected all sessions revoked, got %d", f.sessionStore.Count())
	}

	// Old password no longer works, new one does
	if _, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "old-password",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected old password rejected, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "new-password",
	}); err != nil {
		t.Errorf("new password should work, got %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "alice@example.com", "old-password", true)

	err := f.svc.ChangePassword(context.Background(), user.ID, &domain.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "new-password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Validate_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)

	token, _ := f.authAdapter.GenerateToken(&domain.TokenClaims{
		UserID:    "user-1",
		SessionID: "session-1",
		IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})

	_, err := f.svc.Validate(context.Background(), token)
	if !errors.Is(err, domain.ErrTokenInvalid) && !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected expired or invalid token error, got %v", err)
	}
}
