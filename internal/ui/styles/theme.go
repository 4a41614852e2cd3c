package styles

import (
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/store"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// Dark is the dark color theme
var Dark = Theme{
	Name: "Dark",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
	Cursor:      lipgloss.Color("#c0caf5"),
}

// Light is the light color theme
var Light = Theme{
	Name: "Light",

	Background:    lipgloss.Color("#e1e2e7"),
	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#848cb5"),

	Primary:   lipgloss.Color("#2e7de9"),
	Secondary: lipgloss.Color("#9854f1"),
	Accent:    lipgloss.Color("#007197"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),
	Info:    lipgloss.Color("#2e7de9"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
	Cursor:      lipgloss.Color("#3760bf"),
}

// ForPreference maps the persisted theme preference to a Theme
func ForPreference(pref store.Theme) Theme {
	if pref == store.ThemeDark {
		return Dark
	}
	return Light
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 100

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Theme Theme

	// App container
	App lipgloss.Style

	// Title bar
	TitleBar   lipgloss.Style
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Sidebar navigation
	Sidebar         lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style

	// Lists
	List         lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Metric cards and charts
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardValue lipgloss.Style
	BarFill   lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Task item
	TaskItem     lipgloss.Style
	TaskTitle    lipgloss.Style
	TaskDone     lipgloss.Style
	TaskOverdue  lipgloss.Style
	TaskPriority lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Error banners
	ErrorBanner lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
}

// NewStyles creates styles for the given theme. The theme comes from
// the preference store; styles are rebuilt whenever it changes.
func NewStyles(t Theme) *Styles {
	return &Styles{
		Theme: t,

		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		TitleBar: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(t.Border).
			Padding(1, 2),

		SidebarItem: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		SidebarSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		List: lipgloss.NewStyle().
			Padding(1, 2),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		CardTitle: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CardValue: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		BarFill: lipgloss.NewStyle().
			Foreground(t.Primary),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		TaskItem: lipgloss.NewStyle().
			Padding(0, 1),

		TaskTitle: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Success),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		TaskPriority: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		ErrorBanner: lipgloss.NewStyle().
			Foreground(t.Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}
