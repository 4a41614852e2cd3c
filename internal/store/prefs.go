package store

import "encoding/json"

const prefsKey = "prefs/v1"

// Theme is the UI color scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type prefsState struct {
	Theme       Theme `json:"theme"`
	SidebarOpen bool  `json:"sidebar_open"`
}

// PrefStore holds the UI preferences: theme and navigation-panel
// visibility. Persisted independently of the session.
type PrefStore struct {
	settings Settings
	state    prefsState
}

// NewPrefStore creates the store and loads persisted preferences,
// defaulting to the light theme with the sidebar open.
func NewPrefStore(settings Settings) *PrefStore {
	s := &PrefStore{
		settings: settings,
		state:    prefsState{Theme: ThemeLight, SidebarOpen: true},
	}
	s.load()
	return s
}

func (s *PrefStore) load() {
	if s.settings == nil {
		return
	}
	blob, err := s.settings.GetSetting(prefsKey)
	if err != nil || blob == "" {
		return
	}
	var state prefsState
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return
	}
	if state.Theme != ThemeLight && state.Theme != ThemeDark {
		state.Theme = ThemeLight
	}
	s.state = state
}

func (s *PrefStore) save() {
	if s.settings == nil {
		return
	}
	blob, err := json.Marshal(s.state)
	if err != nil {
		return
	}
	_ = s.settings.SetSetting(prefsKey, string(blob))
}

// SetTheme sets the theme
func (s *PrefStore) SetTheme(theme Theme) {
	s.state.Theme = theme
	s.save()
}

// ToggleTheme flips between light and dark
func (s *PrefStore) ToggleTheme() {
	if s.state.Theme == ThemeLight {
		s.state.Theme = ThemeDark
	} else {
		s.state.Theme = ThemeLight
	}
	s.save()
}

// SetSidebarOpen sets the navigation panel visibility
func (s *PrefStore) SetSidebarOpen(open bool) {
	s.state.SidebarOpen = open
	s.save()
}

// ToggleSidebar flips the navigation panel visibility
func (s *PrefStore) ToggleSidebar() {
	s.state.SidebarOpen = !s.state.SidebarOpen
	s.save()
}

// Theme returns the active theme
func (s *PrefStore) Theme() Theme {
	return s.state.Theme
}

// SidebarOpen reports whether the navigation panel is visible
func (s *PrefStore) SidebarOpen() bool {
	return s.state.SidebarOpen
}
