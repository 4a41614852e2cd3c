package views

import (
	"time"

	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/store"
)

// Deps are the shared collaborators handed to every view. They are
// constructed once at startup and injected; no view owns a store.
type Deps struct {
	API      *api.Client
	Session  *store.SessionStore
	Prefs    *store.PrefStore
	Tasks    *store.TaskStore
	Comments *store.CommentStore
	Log      *zap.Logger
}

// LoggedIn signals a successful login to the app
type LoggedIn struct{}

// AuthExpired signals that the API rejected the bearer token; the app
// reacts by logging out and returning to the login view.
type AuthExpired struct{}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// formatDate renders a timestamp for list rows
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2 2006")
}
