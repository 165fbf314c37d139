package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
	"github.com/docship-labs/docship-core/internal/runtime"
)

// Mock services for testing

type mockAuthService struct {
	loginFn          func(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	refreshFn        func(ctx context.Context, req *domain.RefreshRequest) (*domain.LoginResponse, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	validateFn       func(ctx context.Context, token string) (*domain.AuthContext, error)
	changePasswordFn func(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error
}

func (m *mockAuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Refresh(ctx context.Context, req *domain.RefreshRequest) (*domain.LoginResponse, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) Validate(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, userID, req)
	}
	return errors.New("not implemented")
}

type mockUserService struct {
	setupRequiredFn func(ctx context.Context) (bool, error)
	setupFn         func(ctx context.Context, req *driving.SetupRequest) (*domain.UserSummary, error)
	createFn        func(ctx context.Context, actor *domain.AuthContext, req *driving.CreateUserRequest) (*domain.UserSummary, error)
	getFn           func(ctx context.Context, actor *domain.AuthContext, id string) (*domain.UserSummary, error)
	listFn          func(ctx context.Context, actor *domain.AuthContext) ([]*domain.UserSummary, error)
	deleteFn        func(ctx context.Context, actor *domain.AuthContext, id string) error
}

func (m *mockUserService) SetupRequired(ctx context.Context) (bool, error) {
	if m.setupRequiredFn != nil {
		return m.setupRequiredFn(ctx)
	}
	return false, errors.New("not implemented")
}

func (m *mockUserService) Setup(ctx context.Context, req *driving.SetupRequest) (*domain.UserSummary, error) {
	if m.setupFn != nil {
		return m.setupFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Create(ctx context.Context, actor *domain.AuthContext, req *driving.CreateUserRequest) (*domain.UserSummary, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actor, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Get(ctx context.Context, actor *domain.AuthContext, id string) (*domain.UserSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, actor, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) List(ctx context.Context, actor *domain.AuthContext) ([]*domain.UserSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, actor)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Delete(ctx context.Context, actor *domain.AuthContext, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actor, id)
	}
	return errors.New("not implemented")
}

type mockIngestService struct {
	ingestFn func(ctx context.Context, req *driving.UploadRequest) (*domain.Document, error)
}

func (m *mockIngestService) Ingest(ctx context.Context, req *driving.UploadRequest) (*domain.Document, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockSearchService struct {
	searchFn         func(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error)
	searchByVectorFn func(ctx context.Context, userID string, vector []float32, opts *domain.SearchOptions) (*domain.SearchResult, error)
}

func (m *mockSearchService) Search(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, query, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSearchService) SearchByVector(ctx context.Context, userID string, vector []float32, opts *domain.SearchOptions) (*domain.SearchResult, error) {
	if m.searchByVectorFn != nil {
		return m.searchByVectorFn(ctx, userID, vector, opts)
	}
	return nil, errors.New("not implemented")
}

type mockDocumentService struct {
	getFn           func(ctx context.Context, userID, id string) (*domain.Document, error)
	getWithChunksFn func(ctx context.Context, userID, id string) (*domain.DocumentWithChunks, error)
	listFn          func(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error)
	deleteFn        func(ctx context.Context, userID, id string) error
}

func (m *mockDocumentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) GetWithChunks(ctx context.Context, userID, id string) (*domain.DocumentWithChunks, error) {
	if m.getWithChunksFn != nil {
		return m.getWithChunksFn(ctx, userID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit, offset)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

type mockSettingsService struct {
	getFn    func(ctx context.Context, actor *domain.AuthContext) (*domain.AICredentialSummary, error)
	updateFn func(ctx context.Context, actor *domain.AuthContext, req *driving.UpdateCredentialRequest) (*domain.AICredentialSummary, error)
	deleteFn func(ctx context.Context, actor *domain.AuthContext) error
}

func (m *mockSettingsService) GetCredential(ctx context.Context, actor *domain.AuthContext) (*domain.AICredentialSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, actor)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSettingsService) UpdateCredential(ctx context.Context, actor *domain.AuthContext, req *driving.UpdateCredentialRequest) (*domain.AICredentialSummary, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, actor, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSettingsService) DeleteCredential(ctx context.Context, actor *domain.AuthContext) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, actor)
	}
	return errors.New("not implemented")
}

// Test helpers

func memberAuthCtx() *domain.AuthContext {
	return &domain.AuthContext{
		UserID:    "user-1",
		Email:     "member@example.com",
		Role:      domain.RoleMember,
		SessionID: "session-1",
	}
}

// withAuth injects an auth context the way the Authenticate middleware does
func withAuth(req *http.Request, authCtx *domain.AuthContext) *http.Request {
	ctx := context.WithValue(req.Context(), authContextKey, authCtx)
	return req.WithContext(ctx)
}

func TestHealthHandler(t *testing.T) {
	server := &Server{version: "test"}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %s", response["status"])
	}
}

func TestVersionHandler(t *testing.T) {
	server := &Server{version: "1.2.3"}

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()

	server.handleVersion(rr, req)

	var response map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&response)
	if response["version"] != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %s", response["version"])
	}
}

func TestHandleLogin_Success(t *testing.T) {
	expiresAt := time.Now().Add(1 * time.Hour)
	mockAuth := &mockAuthService{
		loginFn: func(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
			if req.Email == "test@example.com" && req.Password == "password123" {
				return &domain.LoginResponse{
					Token:        "test-token",
					RefreshToken: "refresh-token",
					ExpiresAt:    expiresAt,
					User: &domain.UserSummary{
						ID:    "user-1",
						Email: "test@example.com",
						Name:  "Test User",
						Role:  domain.RoleAdmin,
					},
				}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.LoginResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Token != "test-token" {
		t.Errorf("expected token 'test-token', got %s", response.Token)
	}
	if response.User.Email != "test@example.com" {
		t.Errorf("expected email 'test@example.com', got %s", response.User.Email)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	mockAuth := &mockAuthService{
		loginFn: func(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.LoginRequest{Email: "wrong@example.com", Password: "wrongpass"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleLogin_InvalidJSON(t *testing.T) {
	server := &Server{authService: &mockAuthService{}}

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleRefresh_Success(t *testing.T) {
	mockAuth := &mockAuthService{
		refreshFn: func(ctx context.Context, req *domain.RefreshRequest) (*domain.LoginResponse, error) {
			if req.RefreshToken != "valid-refresh" {
				return nil, domain.ErrSessionNotFound
			}
			return &domain.LoginResponse{Token: "new-token", RefreshToken: "new-refresh"}, nil
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.RefreshRequest{RefreshToken: "valid-refresh"})
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleRefresh(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.LoginResponse
	_ = json.NewDecoder(rr.Body).Decode(&response)
	if response.Token != "new-token" {
		t.Errorf("expected token 'new-token', got %s", response.Token)
	}
}

func TestHandleRefresh_InvalidToken(t *testing.T) {
	mockAuth := &mockAuthService{
		refreshFn: func(ctx context.Context, req *domain.RefreshRequest) (*domain.LoginResponse, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.RefreshRequest{RefreshToken: "stale"})
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleRefresh(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleLogout(t *testing.T) {
	var loggedOut string
	mockAuth := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}

	server := &Server{authService: mockAuth}

	req := httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleLogout(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if loggedOut != "session-1" {
		t.Errorf("expected session-1 logged out, got %q", loggedOut)
	}
}

func TestHandleSetup_Success(t *testing.T) {
	mockUsers := &mockUserService{
		setupFn: func(ctx context.Context, req *driving.SetupRequest) (*domain.UserSummary, error) {
			return &domain.UserSummary{
				ID:    "admin-1",
				Email: req.Email,
				Name:  req.Name,
				Role:  domain.RoleAdmin,
			}, nil
		},
	}

	server := &Server{userService: mockUsers}

	body, _ := json.Marshal(driving.SetupRequest{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: "strong-password",
	})
	req := httptest.NewRequest("POST", "/api/v1/setup", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleSetup(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}

	var summary domain.UserSummary
	_ = json.NewDecoder(rr.Body).Decode(&summary)
	if summary.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", summary.Role)
	}
}

func TestHandleSetup_AlreadyComplete(t *testing.T) {
	mockUsers := &mockUserService{
		setupFn: func(ctx context.Context, req *driving.SetupRequest) (*domain.UserSummary, error) {
			return nil, domain.ErrAlreadyExists
		},
	}

	server := &Server{userService: mockUsers}

	body, _ := json.Marshal(driving.SetupRequest{Email: "a@b.c", Name: "x", Password: "password1"})
	req := httptest.NewRequest("POST", "/api/v1/setup", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleSetup(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestHandleSetupRequired(t *testing.T) {
	mockUsers := &mockUserService{
		setupRequiredFn: func(ctx context.Context) (bool, error) { return true, nil },
	}

	server := &Server{userService: mockUsers}

	req := httptest.NewRequest("GET", "/api/v1/setup/required", nil)
	rr := httptest.NewRecorder()

	server.handleSetupRequired(rr, req)

	var response map[string]bool
	_ = json.NewDecoder(rr.Body).Decode(&response)
	if !response["setup_required"] {
		t.Error("expected setup_required true")
	}
}

func TestHandleGetMe(t *testing.T) {
	mockUsers := &mockUserService{
		getFn: func(ctx context.Context, actor *domain.AuthContext, id string) (*domain.UserSummary, error) {
			if id != "user-1" {
				return nil, domain.ErrNotFound
			}
			return &domain.UserSummary{ID: id, Email: "member@example.com"}, nil
		},
	}

	server := &Server{userService: mockUsers}

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleGetMe(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestHandleGetMe_NoAuthContext(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	rr := httptest.NewRecorder()

	server.handleGetMe(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleChangePassword_WrongCurrent(t *testing.T) {
	mockAuth := &mockAuthService{
		changePasswordFn: func(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error {
			return domain.ErrInvalidCredentials
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword"})
	req := httptest.NewRequest("POST", "/api/v1/me/password", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleChangePassword(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleCreateUser_Forbidden(t *testing.T) {
	mockUsers := &mockUserService{
		createFn: func(ctx context.Context, actor *domain.AuthContext, req *driving.CreateUserRequest) (*domain.UserSummary, error) {
			return nil, domain.ErrForbidden
		},
	}

	server := &Server{userService: mockUsers}

	body, _ := json.Marshal(driving.CreateUserRequest{Email: "new@example.com", Name: "n", Password: "password1"})
	req := httptest.NewRequest("POST", "/api/v1/users", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleCreateUser(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestHandleDeleteUser_SelfDeletion(t *testing.T) {
	mockUsers := &mockUserService{
		deleteFn: func(ctx context.Context, actor *domain.AuthContext, id string) error {
			return domain.ErrInvalidInput
		},
	}

	server := &Server{userService: mockUsers}

	req := httptest.NewRequest("DELETE", "/api/v1/users/user-1", nil)
	req.SetPathValue("id", "user-1")
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleDeleteUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleUploadDocument_Success(t *testing.T) {
	var captured *driving.UploadRequest
	mockIngest := &mockIngestService{
		ingestFn: func(ctx context.Context, req *driving.UploadRequest) (*domain.Document, error) {
			captured = req
			return &domain.Document{
				ID:         "doc-1",
				UserID:     req.UserID,
				FileName:   req.FileName,
				ChunkCount: 3,
				Stage:      domain.StageLabelEmbedded,
			}, nil
		},
	}

	server := &Server{ingestService: mockIngest, maxUpload: 1 << 20}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "notes.txt")
	_, _ = part.Write([]byte("hello world"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured == nil {
		t.Fatal("expected ingest service to be called")
	}
	if captured.UserID != "user-1" {
		t.Errorf("expected user id from auth context, got %s", captured.UserID)
	}
	if captured.FileName != "notes.txt" {
		t.Errorf("expected file name notes.txt, got %s", captured.FileName)
	}
	if string(captured.Content) != "hello world" {
		t.Errorf("unexpected file content: %q", captured.Content)
	}
}

func TestHandleUploadDocument_UnsupportedType(t *testing.T) {
	mockIngest := &mockIngestService{
		ingestFn: func(ctx context.Context, req *driving.UploadRequest) (*domain.Document, error) {
			return nil, domain.NewPipelineError(domain.StageExtract, domain.ErrUnsupportedType)
		},
	}

	server := &Server{ingestService: mockIngest, maxUpload: 1 << 20}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "archive.zip")
	_, _ = part.Write([]byte{0x50, 0x4b})
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected status 415, got %d", rr.Code)
	}
}

func TestHandleUploadDocument_MissingFile(t *testing.T) {
	server := &Server{ingestService: &mockIngestService{}, maxUpload: 1 << 20}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "no file here")
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleSearch_Success(t *testing.T) {
	mockSearch := &mockSearchService{
		searchFn: func(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error) {
			if userID != "user-1" {
				t.Errorf("expected user id from auth context, got %s", userID)
			}
			return &domain.SearchResult{
				Results: []*domain.ChunkMatch{
					{DocumentID: "doc-1", Content: "match", Similarity: 0.92},
				},
				TotalScanned: 4,
			}, nil
		},
	}

	server := &Server{searchService: mockSearch}

	body, _ := json.Marshal(searchRequest{Query: "hello"})
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleSearch(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var result domain.SearchResult
	_ = json.NewDecoder(rr.Body).Decode(&result)
	if len(result.Results) != 1 || result.Results[0].DocumentID != "doc-1" {
		t.Errorf("unexpected search result: %+v", result)
	}
}

func TestHandleSearch_ByVector(t *testing.T) {
	called := false
	mockSearch := &mockSearchService{
		searchByVectorFn: func(ctx context.Context, userID string, vector []float32, opts *domain.SearchOptions) (*domain.SearchResult, error) {
			called = true
			if len(vector) != 3 {
				t.Errorf("expected 3-element vector, got %d", len(vector))
			}
			return &domain.SearchResult{}, nil
		},
	}

	server := &Server{searchService: mockSearch}

	body, _ := json.Marshal(searchRequest{Vector: []float32{0.1, 0.2, 0.3}})
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleSearch(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if !called {
		t.Error("expected SearchByVector to be called")
	}
}

func TestHandleSearch_EmbeddingUnavailable(t *testing.T) {
	mockSearch := &mockSearchService{
		searchFn: func(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error) {
			return nil, domain.ErrEmbeddingUnavailable
		},
	}

	server := &Server{searchService: mockSearch}

	body, _ := json.Marshal(searchRequest{Query: "anything"})
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleSearch(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	mockSearch := &mockSearchService{
		searchFn: func(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error) {
			return nil, domain.ErrInvalidInput
		},
	}

	server := &Server{searchService: mockSearch}

	body, _ := json.Marshal(searchRequest{Query: ""})
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleSearch(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleGetDocument_NotFound(t *testing.T) {
	mockDocs := &mockDocumentService{
		getFn: func(ctx context.Context, userID, id string) (*domain.Document, error) {
			return nil, domain.ErrNotFound
		},
	}

	server := &Server{docService: mockDocs}

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-x", nil)
	req.SetPathValue("id", "doc-x")
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleGetDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleListDocuments_PassesPagination(t *testing.T) {
	var gotLimit, gotOffset int
	mockDocs := &mockDocumentService{
		listFn: func(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Document{}, nil
		},
	}

	server := &Server{docService: mockDocs}

	req := httptest.NewRequest("GET", "/api/v1/documents?limit=10&offset=20", nil)
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("expected limit=10 offset=20, got limit=%d offset=%d", gotLimit, gotOffset)
	}
}

func TestHandleDeleteDocument_Success(t *testing.T) {
	var deletedID string
	mockDocs := &mockDocumentService{
		deleteFn: func(ctx context.Context, userID, id string) error {
			deletedID = id
			return nil
		},
	}

	server := &Server{docService: mockDocs}

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1", nil)
	req.SetPathValue("id", "doc-1")
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleDeleteDocument(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if deletedID != "doc-1" {
		t.Errorf("expected doc-1 deleted, got %s", deletedID)
	}
}

func TestHandleUpdateAICredential_ValidationFailure(t *testing.T) {
	mockSettings := &mockSettingsService{
		updateFn: func(ctx context.Context, actor *domain.AuthContext, req *driving.UpdateCredentialRequest) (*domain.AICredentialSummary, error) {
			return nil, domain.ErrServiceUnavailable
		},
	}

	server := &Server{settingsService: mockSettings}

	body, _ := json.Marshal(driving.UpdateCredentialRequest{
		Provider: domain.ProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-bad",
	})
	req := httptest.NewRequest("PUT", "/api/v1/settings/ai", bytes.NewBuffer(body))
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleUpdateAICredential(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

func TestHandleGetAICredential_NotConfigured(t *testing.T) {
	mockSettings := &mockSettingsService{
		getFn: func(ctx context.Context, actor *domain.AuthContext) (*domain.AICredentialSummary, error) {
			return nil, domain.ErrNotFound
		},
	}

	server := &Server{settingsService: mockSettings}

	req := httptest.NewRequest("GET", "/api/v1/settings/ai", nil)
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleGetAICredential(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleGetAIStatus(t *testing.T) {
	services := runtime.NewServices(domain.NewRuntimeConfig("postgres"))
	server := &Server{services: services}

	req := httptest.NewRequest("GET", "/api/v1/settings/ai/status", nil)
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleGetAIStatus(rr, req)

	var status map[string]interface{}
	_ = json.NewDecoder(rr.Body).Decode(&status)
	if status["embedding_available"] != false {
		t.Error("expected embedding_available false with no service configured")
	}
}

func TestHandleTestAIConnection_NoService(t *testing.T) {
	services := runtime.NewServices(domain.NewRuntimeConfig("postgres"))
	server := &Server{services: services}

	req := httptest.NewRequest("POST", "/api/v1/settings/ai/test", nil)
	req = withAuth(req, memberAuthCtx())
	rr := httptest.NewRecorder()

	server.handleTestAIConnection(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusTeapot, map[string]string{"key": "value"})

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Error("expected JSON content type")
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "something broke")

	var response map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&response)
	if response["error"] != "something broke" {
		t.Errorf("expected error message, got %s", response["error"])
	}
}
