package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsdeck/admin-console/internal/api/metrics"
	"github.com/opsdeck/admin-console/internal/core/domain"
	"github.com/opsdeck/admin-console/internal/core/guard"
)

// SessionSource yields the session snapshot guards evaluate. Satisfied by
// the session manager.
type SessionSource interface {
	Snapshot() domain.Session
}

// pendingPage is the neutral waiting state served while the startup
// verification is unresolved: no protected content, no redirect, retry
// shortly.
const pendingPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta http-equiv="refresh" content="1">
  <title>Admin Console</title>
</head>
<body>
  <p>Restoring session&hellip;</p>
</body>
</html>
`

// Require evaluates g against the current session on every request and
// renders the decision. Every deny materialises as a real redirect response;
// there is no path where a deny is computed but not rendered.
func Require(sessions SessionSource, g guard.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Snapshot()
			d := g.Evaluate(s)
			metrics.GuardDecisionsTotal.WithLabelValues(g.Name(), outcomeLabel(d.Outcome)).Inc()

			switch d.Outcome {
			case guard.Allow:
				c.Set("user", s.User)
				return next(c)
			case guard.Pending:
				return c.HTML(http.StatusOK, pendingPage)
			default:
				// 303 keeps the protected URL out of the history entry, so
				// the back button cannot loop into the guarded page.
				return c.Redirect(http.StatusSeeOther, d.Target)
			}
		}
	}
}

func outcomeLabel(o guard.Outcome) string {
	switch o {
	case guard.Allow:
		return "allow"
	case guard.Pending:
		return "pending"
	default:
		return "deny"
	}
}
