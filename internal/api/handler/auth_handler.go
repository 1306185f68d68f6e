package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsdeck/admin-console/internal/core/domain"
	"github.com/opsdeck/admin-console/internal/core/ports"
	"github.com/opsdeck/admin-console/internal/core/service"
)

// AuthHandler owns the login/logout/session routes. It forwards credentials
// to the identity backend and hands successful results to the session
// manager; it never mints or inspects credentials itself.
type AuthHandler struct {
	sessions *service.SessionManager
	backend  ports.BackendClient
}

func NewAuthHandler(sessions *service.SessionManager, backend ports.BackendClient) *AuthHandler {
	return &AuthHandler{sessions: sessions, backend: backend}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type sessionResponse struct {
	Loading       bool               `json:"loading"`
	Authenticated bool               `json:"authenticated"`
	User          *domain.User       `json:"user,omitempty"`
	Token         *service.TokenInfo `json:"token,omitempty"`
}

// Login authenticates the operator against the identity backend.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      303
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.backend.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.sessions.Login(c.Request().Context(), *res)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout drops the session. Safe to call when already logged out.
//
// @Summary      Log out
// @Tags         session
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Session reports the current session state, including an informational,
// unverified peek at the token's claims.
//
// @Summary      Session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	s := h.sessions.Snapshot()
	resp := sessionResponse{
		Loading:       s.Loading,
		Authenticated: s.Authenticated(),
		User:          s.User,
	}
	if s.Token != "" {
		if info, ok := service.PeekToken(s.Token); ok {
			resp.Token = info
		}
	}
	return c.JSON(http.StatusOK, resp)
}
