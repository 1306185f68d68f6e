// Package guard holds the pure access-control decisions for console routes.
// Guards evaluate a session snapshot and return an explicit Decision; the
// transport layer is responsible for rendering every decision it receives,
// so a deny can never be computed and then silently dropped.
package guard

import "github.com/opsdeck/admin-console/internal/core/domain"

// Outcome enumerates the three possible results of a guard evaluation.
type Outcome int

const (
	// Allow renders the protected content.
	Allow Outcome = iota
	// Pending renders a neutral waiting state: the initial verification has
	// not resolved yet, so neither content nor a redirect is appropriate.
	Pending
	// Deny redirects to Decision.Target instead of rendering content.
	Deny
)

// Decision is the result of evaluating a guard against a session snapshot.
type Decision struct {
	Outcome Outcome
	// Target is the redirect destination; set iff Outcome == Deny.
	Target string
}

func allow() Decision { return Decision{Outcome: Allow} }

func pending() Decision { return Decision{Outcome: Pending} }

func deny(target string) Decision { return Decision{Outcome: Deny, Target: target} }

// Guard decides whether a session may enter a route.
type Guard interface {
	// Evaluate must be a pure function of the snapshot: no I/O, no caching.
	Evaluate(s domain.Session) Decision
	// Name labels the guard in metrics and logs.
	Name() string
}

// AccessGuard admits any established session.
type AccessGuard struct {
	loginPath string
}

// Access returns a guard that requires an authenticated session and sends
// everyone else to loginPath.
func Access(loginPath string) *AccessGuard {
	return &AccessGuard{loginPath: loginPath}
}

func (g *AccessGuard) Name() string { return "access" }

func (g *AccessGuard) Evaluate(s domain.Session) Decision {
	if s.Loading {
		return pending()
	}
	if !s.Authenticated() {
		return deny(g.loginPath)
	}
	return allow()
}

// RoleGuard admits an established session whose user holds one of the
// required roles.
type RoleGuard struct {
	loginPath  string
	deniedPath string
	roles      map[string]struct{}
}

// Role returns a guard that, on top of authentication, requires the user's
// role to be one of roles. An unauthenticated session goes to loginPath; an
// authenticated one with the wrong role goes to deniedPath.
func Role(loginPath, deniedPath string, roles ...string) *RoleGuard {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return &RoleGuard{loginPath: loginPath, deniedPath: deniedPath, roles: set}
}

func (g *RoleGuard) Name() string { return "role" }

func (g *RoleGuard) Evaluate(s domain.Session) Decision {
	if s.Loading {
		return pending()
	}
	// The nil check must come first: role membership of a missing user is
	// "unauthenticated", not a crash.
	if !s.Authenticated() {
		return deny(g.loginPath)
	}
	if _, ok := g.roles[s.User.Role]; !ok {
		return deny(g.deniedPath)
	}
	return allow()
}
