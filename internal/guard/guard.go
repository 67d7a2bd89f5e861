// Package guard is the single route-authorization decision point. Every
// protected view asks it before rendering; no view carries its own role
// checks.
package guard

import (
	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/session"
)

// Requirement is what a route demands of the session.
type Requirement int

const (
	// RequireNone allows anonymous access
	RequireNone Requirement = iota
	// RequireAuthenticated demands a logged-in session, any role
	RequireAuthenticated
	// RequireAdmin demands the admin role
	RequireAdmin
	// RequireStaff demands admin or librarian
	RequireStaff
)

// Outcome is the guard's verdict kind.
type Outcome int

const (
	// Allow renders the requested view
	Allow Outcome = iota
	// RedirectToLogin sends an unauthenticated session to the login view
	RedirectToLogin
	// Denied renders an in-page access-denied panel, no redirect
	Denied
)

// Decision is the guard's verdict. Reason is set only for Denied.
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Evaluate decides whether the session may see a route with the given
// requirement. Pure and deterministic; safe to call on every navigation.
// Rule order: authentication first, then role. A missing profile on an
// authenticated session denies role-gated routes rather than crashing or
// letting it through.
func Evaluate(s session.Snapshot, req Requirement) Decision {
	if req == RequireNone {
		return Decision{Outcome: Allow}
	}

	if !s.Authenticated {
		return Decision{Outcome: RedirectToLogin}
	}

	switch req {
	case RequireAdmin:
		if s.User == nil || s.User.Role != domain.RoleAdmin {
			return Decision{Outcome: Denied, Reason: "Admin access required."}
		}
	case RequireStaff:
		if s.User == nil || !s.User.Role.IsStaff() {
			return Decision{Outcome: Denied, Reason: "Only librarians and admins can access this page."}
		}
	}

	return Decision{Outcome: Allow}
}
