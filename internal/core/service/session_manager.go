package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsdeck/admin-console/internal/core/domain"
	"github.com/opsdeck/admin-console/internal/core/ports"
)

// SessionManager owns the console's in-memory session. It is the single
// source of truth for "who is the current operator"; the persisted store is
// only a durable mirror.
//
// The manager never returns errors across its public boundary for the
// expected failure classes (rejected credential, transient backend failure,
// incomplete login payload): each resolves to a state change or a logged
// no-op, and callers inspect the resulting state.
type SessionManager struct {
	store   ports.SessionStore
	backend ports.BackendClient
	audit   ports.AuditRecorder
	log     zerolog.Logger

	mu          sync.RWMutex
	user        *domain.User
	token       string
	loading     bool
	initialized bool
}

// NewSessionManager creates a manager in the unresolved state. audit may be
// nil, in which case lifecycle events are not recorded.
func NewSessionManager(store ports.SessionStore, backend ports.BackendClient, audit ports.AuditRecorder, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:   store,
		backend: backend,
		audit:   audit,
		log:     log,
		loading: true,
	}
}

// Initialize resolves the persisted session against the backend. Called once
// at startup; later calls are logged and ignored.
//
// Outcomes:
//   - no persisted token: unauthenticated, no network call made
//   - backend accepts the token: authenticated as the returned user
//   - backend rejects the token: persisted session cleared, unauthenticated
//   - backend unreachable: persisted session kept, cached identity adopted
func (m *SessionManager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		m.log.Warn().Msg("session: Initialize called more than once, ignoring")
		return
	}
	m.initialized = true
	m.mu.Unlock()

	token, err := m.store.ReadToken(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("session: reading persisted token")
	}
	if token == "" {
		m.resolve(nil, "")
		m.log.Info().Msg("session: no persisted token, starting unauthenticated")
		return
	}

	user, err := m.backend.Verify(ctx)
	switch {
	case err == nil:
		if err := m.store.Save(ctx, token, user); err != nil {
			m.log.Warn().Err(err).Msg("session: persisting verified user")
		}
		m.resolve(user, token)
		m.record(ctx, domain.AuditVerifyOK, user)
		m.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session: verification succeeded")

	case errors.Is(err, domain.ErrUnauthorized):
		if err := m.store.Clear(ctx); err != nil {
			m.log.Warn().Err(err).Msg("session: clearing rejected session")
		}
		m.resolve(nil, "")
		m.record(ctx, domain.AuditVerifyRejected, nil)
		m.log.Info().Msg("session: persisted token rejected, logged out")

	default:
		// Transient failure: do not punish the operator for a backend
		// outage. Keep the persisted session and fall back to the cached
		// identity, if any.
		cached, readErr := m.store.ReadUser(ctx)
		if readErr != nil {
			m.log.Error().Err(readErr).Msg("session: reading cached user")
		}
		m.resolve(cached, token)
		m.log.Warn().Err(err).Bool("cached_identity", cached != nil).
			Msg("session: verification failed transiently, keeping persisted session")
	}
}

// Login installs an already-successful backend authentication result. An
// incomplete payload (missing token or user) is a logged no-op.
func (m *SessionManager) Login(ctx context.Context, res domain.LoginResult) {
	if res.Token == "" || res.User == nil {
		m.log.Warn().
			Bool("has_token", res.Token != "").
			Bool("has_user", res.User != nil).
			Msg("session: ignoring incomplete login result")
		return
	}

	m.mu.Lock()
	m.user = res.User
	m.token = res.Token
	m.loading = false
	m.mu.Unlock()

	if err := m.store.Save(ctx, res.Token, res.User); err != nil {
		m.log.Warn().Err(err).Msg("session: persisting login")
	}
	m.record(ctx, domain.AuditLogin, res.User)
	m.log.Info().Str("user_id", res.User.ID).Str("role", res.User.Role).Msg("session: logged in")
}

// Logout drops the session and its persisted mirror. Safe to call when
// already logged out.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	was := m.user
	m.user = nil
	m.token = ""
	m.loading = false
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("session: clearing persisted session")
	}
	if was != nil {
		m.record(ctx, domain.AuditLogout, was)
		m.log.Info().Str("user_id", was.ID).Msg("session: logged out")
	}
}

// IsAuthenticated reports whether an identity is currently established.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// CurrentUser returns the authenticated user, or nil.
func (m *SessionManager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Loading reports whether the initial verification is still unresolved.
func (m *SessionManager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Snapshot returns an immutable view of the session for guard evaluation.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Session{User: m.user, Token: m.token, Loading: m.loading}
}

// resolve ends the loading phase with the given identity.
func (m *SessionManager) resolve(user *domain.User, token string) {
	m.mu.Lock()
	m.user = user
	m.token = token
	m.loading = false
	m.mu.Unlock()
}

// record writes an audit event, best-effort.
func (m *SessionManager) record(ctx context.Context, kind string, user *domain.User) {
	if m.audit == nil {
		return
	}
	ev := domain.AuditEvent{
		ID:   uuid.NewString(),
		Kind: kind,
		At:   time.Now().UTC(),
	}
	if user != nil {
		ev.UserID = user.ID
		ev.Email = user.Email
	}
	if err := m.audit.Record(ctx, ev); err != nil {
		m.log.Warn().Err(err).Str("kind", kind).Msg("session: recording audit event")
	}
}
