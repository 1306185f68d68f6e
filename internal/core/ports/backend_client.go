package ports

import (
	"context"

	"github.com/opsdeck/admin-console/internal/core/domain"
)

// BackendClient is the console's view of the identity backend.
type BackendClient interface {
	// Login exchanges credentials for a token and user.
	// Rejected credentials map to domain.ErrInvalidCredentials, anything
	// transient to domain.ErrBackendUnavailable.
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	// Verify asks the backend who the currently stored token belongs to.
	// A 401 maps to domain.ErrUnauthorized.
	Verify(ctx context.Context) (*domain.User, error)
}
