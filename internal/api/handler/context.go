package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsdeck/admin-console/internal/core/domain"
)

// ctxUser extracts the user the guard middleware injected for this request.
// Presence proves a guard ran and allowed it; a guarded route reached without
// one is a wiring bug, answered with 401 rather than a nil dereference.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return user, nil
}
