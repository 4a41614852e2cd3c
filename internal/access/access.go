// Package access decides whether the current session may view a
// guarded page. The decision is a pure function of its inputs and is
// evaluated on every navigation, never cached across view switches,
// since authentication can change between renders.
package access

import "taskdeck/internal/models"

// Decision is the outcome of a gate check
type Decision int

const (
	// Allow permits rendering of the guarded content
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated session to the login page
	RedirectLogin
	// RedirectAdminDashboard sends an admin away from a page their
	// role doesn't match
	RedirectAdminDashboard
	// RedirectDashboard sends everyone else to the regular dashboard
	RedirectDashboard
)

// Decide gates a page guarded by allowedRoles. A missing user or a
// role outside the allowed set falls back to the role-appropriate
// dashboard; no distinction is drawn between a wrong role and a
// malformed session.
func Decide(authenticated bool, user *models.User, allowedRoles []models.Role) Decision {
	if !authenticated {
		return RedirectLogin
	}

	if user == nil || !roleAllowed(user.Role, allowedRoles) {
		if user != nil && user.Role == models.RoleAdmin {
			return RedirectAdminDashboard
		}
		return RedirectDashboard
	}

	return Allow
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
