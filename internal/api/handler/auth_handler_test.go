package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opsdeck/admin-console/internal/core/domain"
	"github.com/opsdeck/admin-console/internal/core/service"
)

type stubStore struct {
	token string
	user  *domain.User
}

func (s *stubStore) Save(_ context.Context, token string, user *domain.User) error {
	s.token = token
	s.user = user
	return nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.token = ""
	s.user = nil
	return nil
}

func (s *stubStore) ReadToken(_ context.Context) (string, error) { return s.token, nil }

func (s *stubStore) ReadUser(_ context.Context) (*domain.User, error) { return s.user, nil }

type stubBackend struct {
	result *domain.LoginResult
	err    error
}

func (b *stubBackend) Login(_ context.Context, _, _ string) (*domain.LoginResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.result, nil
}

func (b *stubBackend) Verify(_ context.Context) (*domain.User, error) {
	return nil, domain.ErrBackendUnavailable
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	store := &stubStore{}
	backend := &stubBackend{result: &domain.LoginResult{
		Token: "t1",
		User:  &domain.User{ID: "2", Email: "bob@example.com", Role: domain.RoleOperator},
	}}
	sessions := service.NewSessionManager(store, backend, nil, zerolog.Nop())
	h := NewAuthHandler(sessions, backend)

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"email":"bob@example.com","password":"hunter2"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if !sessions.IsAuthenticated() {
		t.Fatalf("expected session established")
	}
	if store.token != "t1" {
		t.Fatalf("expected token persisted, got %q", store.token)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	store := &stubStore{}
	backend := &stubBackend{err: domain.ErrInvalidCredentials}
	sessions := service.NewSessionManager(store, backend, nil, zerolog.Nop())
	h := NewAuthHandler(sessions, backend)

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"email":"not-an-email"}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if sessions.IsAuthenticated() || store.token != "" {
		t.Fatalf("invalid payload must not touch session state")
	}
}

func TestAuthHandler_Login_RejectedCredentials(t *testing.T) {
	store := &stubStore{}
	backend := &stubBackend{err: domain.ErrInvalidCredentials}
	sessions := service.NewSessionManager(store, backend, nil, zerolog.Nop())
	h := NewAuthHandler(sessions, backend)

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"email":"bob@example.com","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate to the error handler, got %v", err)
	}
	if sessions.IsAuthenticated() {
		t.Fatalf("rejected login must not authenticate")
	}
}

func TestAuthHandler_Logout_Idempotent(t *testing.T) {
	store := &stubStore{}
	sessions := service.NewSessionManager(store, &stubBackend{}, nil, zerolog.Nop())
	h := NewAuthHandler(sessions, &stubBackend{})

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPost, "/logout", "")
		if err := h.Logout(c); err != nil {
			t.Fatalf("Logout: %v", err)
		}
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
	}
}

func TestAuthHandler_Session_ReportsState(t *testing.T) {
	store := &stubStore{}
	backend := &stubBackend{result: &domain.LoginResult{Token: "opaque-token", User: &domain.User{ID: "1", Role: domain.RoleAdmin}}}
	sessions := service.NewSessionManager(store, backend, nil, zerolog.Nop())
	h := NewAuthHandler(sessions, backend)

	sessions.Login(context.Background(), *backend.result)

	c, rec := newTestContext(t, http.MethodGet, "/session", "")
	if err := h.Session(c); err != nil {
		t.Fatalf("Session: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"authenticated":true`) {
		t.Fatalf("expected authenticated session, got %s", body)
	}
}
