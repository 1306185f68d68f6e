package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsdeck/admin-console/internal/api/metrics"
	"github.com/opsdeck/admin-console/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the identity backend's REST API. Its transport injects the
// persisted bearer token, so no method attaches credentials itself.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a client for the backend at baseURL. If timeout <= 0 the
// default is applied; a hung backend must not leave the console pending
// forever.
func NewClient(baseURL string, store TokenReader, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: NewBearerTransport(store, nil),
		},
		log: log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type verifyResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login exchanges credentials for a token and user via POST /users/login.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	start := time.Now()
	resp, err := c.post(ctx, "/users/login", loginRequest{Email: email, Password: password})
	metrics.BackendRequestDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var body loginResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			metrics.LoginsTotal.WithLabelValues("unavailable").Inc()
			return nil, fmt.Errorf("%w: decode login response: %v", domain.ErrBackendUnavailable, err)
		}
		if body.Token == "" || body.User == nil {
			metrics.LoginsTotal.WithLabelValues("unavailable").Inc()
			return nil, fmt.Errorf("%w: login response missing token or user", domain.ErrBackendUnavailable)
		}
		metrics.LoginsTotal.WithLabelValues("ok").Inc()
		return &domain.LoginResult{Token: body.Token, User: body.User}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		c.log.Info().Int("status", resp.StatusCode).Str("message", errorMessage(resp.Body)).
			Msg("backend: login rejected")
		return nil, domain.ErrInvalidCredentials

	default:
		metrics.LoginsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: login returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
}

// Verify asks the backend who the stored token belongs to via
// POST /users/verify. A 401 means the credential was rejected; any other
// failure is transient.
func (c *Client) Verify(ctx context.Context) (*domain.User, error) {
	start := time.Now()
	resp, err := c.post(ctx, "/users/verify", nil)
	metrics.BackendRequestDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var body verifyResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			metrics.VerificationsTotal.WithLabelValues("transient").Inc()
			return nil, fmt.Errorf("%w: decode verify response: %v", domain.ErrBackendUnavailable, err)
		}
		if !body.Success || body.User == nil {
			metrics.VerificationsTotal.WithLabelValues("transient").Inc()
			return nil, fmt.Errorf("%w: verify response missing user", domain.ErrBackendUnavailable)
		}
		metrics.VerificationsTotal.WithLabelValues("ok").Inc()
		return body.User, nil

	case resp.StatusCode == http.StatusUnauthorized:
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrUnauthorized

	default:
		metrics.VerificationsTotal.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: verify returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// errorMessage extracts the backend's error envelope for logging. Never
// fails: an unreadable body yields an empty message.
func errorMessage(r io.Reader) string {
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}
