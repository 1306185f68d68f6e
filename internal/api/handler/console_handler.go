package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConsoleHandler serves the console's minimal views. The real visual shell
// (sidebar, navbar, styling) lives elsewhere; these pages exist so the
// session flows have something to land on.
type ConsoleHandler struct{}

func NewConsoleHandler() *ConsoleHandler {
	return &ConsoleHandler{}
}

const loginPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
  <form method="post" action="/login">
    <input type="email" name="email" placeholder="email" required>
    <input type="password" name="password" placeholder="password" required>
    <button type="submit">Sign in</button>
  </form>
</body>
</html>
`

const unauthorizedPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Not allowed</title></head>
<body>
  <p>Your account does not have access to that page.</p>
  <p><a href="/dashboard">Back to dashboard</a></p>
</body>
</html>
`

// Home sends the operator to the dashboard; the guard there sorts out the rest.
func (h *ConsoleHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// LoginPage renders the sign-in form.
func (h *ConsoleHandler) LoginPage(c echo.Context) error {
	return c.HTML(http.StatusOK, loginPage)
}

// Unauthorized is the deny destination for role-guarded routes.
func (h *ConsoleHandler) Unauthorized(c echo.Context) error {
	return c.HTML(http.StatusForbidden, unauthorizedPage)
}

// Dashboard renders the guarded landing page for the current operator.
func (h *ConsoleHandler) Dashboard(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Dashboard</title></head>
<body>
  <p>Signed in as %s (%s)</p>
  <form method="post" action="/logout"><button type="submit">Sign out</button></form>
</body>
</html>
`, template.HTMLEscapeString(user.Name), template.HTMLEscapeString(user.Role))

	return c.HTML(http.StatusOK, page)
}
