package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/opsdeck/admin-console/internal/core/ports"
)

// AuditHandler exposes the session audit trail to admins.
type AuditHandler struct {
	audit ports.AuditRecorder
}

func NewAuditHandler(audit ports.AuditRecorder) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Recent lists recent session lifecycle events, newest first.
//
// @Summary      Recent audit events
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of events"  default(50)
// @Success      200    {array}   domain.AuditEvent
// @Failure      500    {object}  map[string]string
// @Router       /admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	events, err := h.audit.Recent(c.Request().Context(), limit)
	if err != nil {
		return fmt.Errorf("list audit events: %w", err)
	}
	return c.JSON(http.StatusOK, events)
}
