package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func TestDecide(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	regular := &models.User{ID: 2, Role: models.RoleRegular}

	tests := []struct {
		name          string
		authenticated bool
		user          *models.User
		allowed       []models.Role
		want          Decision
	}{
		{"unauthenticated always redirects to login", false, regular, []models.Role{models.RoleRegular}, RedirectLogin},
		{"unauthenticated with nil user", false, nil, []models.Role{models.RoleAdmin}, RedirectLogin},
		{"regular allowed on regular page", true, regular, []models.Role{models.RoleRegular}, Allow},
		{"admin allowed on admin page", true, admin, []models.Role{models.RoleAdmin}, Allow},
		{"either role allowed", true, regular, []models.Role{models.RoleAdmin, models.RoleRegular}, Allow},
		{"admin on regular-only page", true, admin, []models.Role{models.RoleRegular}, RedirectAdminDashboard},
		{"regular on admin-only page", true, regular, []models.Role{models.RoleAdmin}, RedirectDashboard},
		{"authenticated but user absent", true, nil, []models.Role{models.RoleRegular}, RedirectDashboard},
		{"empty allowed set", true, regular, nil, RedirectDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.authenticated, tt.user, tt.allowed))
		})
	}
}
