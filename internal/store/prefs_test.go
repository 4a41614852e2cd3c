package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefDefaults(t *testing.T) {
	s := NewPrefStore(newMemSettings())
	require.Equal(t, ThemeLight, s.Theme())
	require.True(t, s.SidebarOpen())
}

func TestToggleTheme(t *testing.T) {
	s := NewPrefStore(newMemSettings())

	s.ToggleTheme()
	require.Equal(t, ThemeDark, s.Theme())

	s.ToggleTheme()
	require.Equal(t, ThemeLight, s.Theme())
}

func TestToggleSidebar(t *testing.T) {
	s := NewPrefStore(newMemSettings())

	s.ToggleSidebar()
	require.False(t, s.SidebarOpen())

	s.ToggleSidebar()
	require.True(t, s.SidebarOpen())
}

func TestPrefsPersistAcrossRestart(t *testing.T) {
	settings := newMemSettings()

	s := NewPrefStore(settings)
	s.SetTheme(ThemeDark)
	s.SetSidebarOpen(false)

	reloaded := NewPrefStore(settings)
	require.Equal(t, ThemeDark, reloaded.Theme())
	require.False(t, reloaded.SidebarOpen())
}

func TestPrefsIndependentOfSession(t *testing.T) {
	settings := newMemSettings()

	prefs := NewPrefStore(settings)
	prefs.SetTheme(ThemeDark)

	session := NewSessionStore(settings)
	session.Logout()

	reloaded := NewPrefStore(settings)
	require.Equal(t, ThemeDark, reloaded.Theme())
}

func TestCorruptPrefsBlobFallsBack(t *testing.T) {
	settings := newMemSettings()
	settings.values[prefsKey] = "{not json"

	s := NewPrefStore(settings)
	require.Equal(t, ThemeLight, s.Theme())
	require.True(t, s.SidebarOpen())
}

func TestUnknownPersistedThemeCoerced(t *testing.T) {
	settings := newMemSettings()
	settings.values[prefsKey] = `{"theme":"solarized","sidebar_open":false}`

	s := NewPrefStore(settings)
	require.Equal(t, ThemeLight, s.Theme())
	require.False(t, s.SidebarOpen())
}
