package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskdeck/internal/access"
	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
	"taskdeck/internal/ui/views"
)

// Page identifies the active page
type Page int

const (
	PageLogin Page = iota
	PageDashboard
	PageTasks
	PageStats
	PageAdmin
)

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "Login"
	case PageDashboard:
		return "Dashboard"
	case PageTasks:
		return "Tasks"
	case PageStats:
		return "Statistics"
	case PageAdmin:
		return "Admin"
	}
	return "Unknown"
}

// pageRoles returns the roles allowed on a page. The login page is
// ungated; everything else requires authentication at minimum.
func pageRoles(p Page) []models.Role {
	if p == PageAdmin {
		return []models.Role{models.RoleAdmin}
	}
	return []models.Role{models.RoleAdmin, models.RoleRegular}
}

type view interface {
	Init() tea.Cmd
	Update(tea.Msg) (tea.Model, tea.Cmd)
	View() string
	SetStyles(*styles.Styles)
}

// App is the root model. It owns navigation, the theme, and the
// sidebar; each page is a child view that receives every message
// while active.
type App struct {
	deps   *views.Deps
	styles *styles.Styles
	keys   keys.KeyMap
	log    *zap.Logger

	page    Page
	current view

	width  int
	height int
}

// NewApp creates the root application model. A persisted session that
// survived the restart skips the login page.
func NewApp(apiClient *api.Client, session *store.SessionStore, prefs *store.PrefStore,
	tasks *store.TaskStore, comments *store.CommentStore, log *zap.Logger) *App {

	deps := &views.Deps{
		API:      apiClient,
		Session:  session,
		Prefs:    prefs,
		Tasks:    tasks,
		Comments: comments,
		Log:      log,
	}

	apiClient.SetTokenSource(session.Token)

	a := &App{
		deps:   deps,
		styles: styles.NewStyles(styles.ForPreference(prefs.Theme())),
		keys:   keys.DefaultKeyMap(),
		log:    log,
	}

	if session.IsAuthenticated() {
		a.setPage(a.homePage())
	} else {
		a.setPage(PageLogin)
	}
	return a
}

// homePage is where a fresh login or a rejected navigation lands
func (a *App) homePage() Page {
	if user := a.deps.Session.User(); user != nil && user.Role == models.RoleAdmin {
		return PageAdmin
	}
	return PageDashboard
}

// setPage swaps in a freshly constructed view for the page. Views are
// rebuilt on every navigation; the stores carry state across them.
func (a *App) setPage(p Page) {
	a.page = p
	switch p {
	case PageLogin:
		a.current = views.NewLoginView(a.deps, a.styles)
	case PageDashboard:
		a.current = views.NewDashboardView(a.deps, a.styles)
	case PageTasks:
		a.current = views.NewTaskListView(a.deps, a.styles)
	case PageStats:
		a.current = views.NewStatsView(a.deps, a.styles)
	case PageAdmin:
		a.current = views.NewAdminView(a.deps, a.styles)
	}
}

// navigate runs the access gate and switches pages. The gate is
// evaluated on every navigation, never cached.
func (a *App) navigate(p Page) tea.Cmd {
	if p == PageLogin {
		a.setPage(PageLogin)
		return a.initCurrent()
	}

	session := a.deps.Session
	switch access.Decide(session.IsAuthenticated(), session.User(), pageRoles(p)) {
	case access.Allow:
		a.setPage(p)
	case access.RedirectLogin:
		a.setPage(PageLogin)
	case access.RedirectAdminDashboard:
		a.setPage(PageAdmin)
	case access.RedirectDashboard:
		a.setPage(PageDashboard)
	}
	return a.initCurrent()
}

func (a *App) initCurrent() tea.Cmd {
	cmd := a.current.Init()
	size := tea.WindowSizeMsg{Width: a.contentWidth(), Height: a.height}
	_, sizeCmd := a.current.Update(size)
	return tea.Batch(cmd, sizeCmd)
}

// contentWidth is the width handed to the active view, minus the
// sidebar when it is open.
func (a *App) contentWidth() int {
	if a.sidebarVisible() {
		return max(0, a.width-sidebarWidth)
	}
	return a.width
}

func (a *App) sidebarVisible() bool {
	return a.page != PageLogin && a.deps.Prefs.SidebarOpen()
}

// Init initializes the application. A persisted session triggers a
// profile refresh so a stale role or deactivated account is caught at
// startup.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.current.Init(), a.refreshProfile())
}

func (a *App) refreshProfile() tea.Cmd {
	if !a.deps.Session.IsAuthenticated() {
		return nil
	}
	deps := a.deps
	return func() tea.Msg {
		user, err := deps.API.Profile(context.Background())
		if err != nil {
			return views.AuthExpired{}
		}
		return profileMsg{user: user}
	}
}

type profileMsg struct {
	user *models.User
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		_, cmd := a.current.Update(tea.WindowSizeMsg{Width: a.contentWidth(), Height: msg.Height})
		return a, cmd

	case views.LoggedIn:
		a.log.Info("logged in", zap.String("page", a.homePage().String()))
		return a, a.navigate(a.homePage())

	case views.AuthExpired:
		a.log.Info("session expired, logging out")
		a.clearSession()
		return a, a.navigate(PageLogin)

	case profileMsg:
		// Replace the persisted identity with the server's current view
		// of it; the role drives navigation and the admin gate.
		a.deps.Session.UpdateUser(store.UserPatch{
			Email:    &msg.user.Email,
			Username: &msg.user.Username,
			FullName: &msg.user.FullName,
			Role:     &msg.user.Role,
			IsActive: &msg.user.IsActive,
		})
		return a, nil

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}
	}

	_, cmd := a.current.Update(msg)
	return a, cmd
}

// handleGlobalKey intercepts app-level bindings before the active
// view sees them. Navigation digits stay global only outside the
// login page so typing in forms is never hijacked; the task and admin
// pages guard their own text inputs by focus.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit, true

	case key.Matches(msg, a.keys.Theme):
		a.deps.Prefs.ToggleTheme()
		a.styles = styles.NewStyles(styles.ForPreference(a.deps.Prefs.Theme()))
		a.current.SetStyles(a.styles)
		return nil, true

	case key.Matches(msg, a.keys.Sidebar):
		if a.page == PageLogin {
			return nil, false
		}
		a.deps.Prefs.ToggleSidebar()
		_, cmd := a.current.Update(tea.WindowSizeMsg{Width: a.contentWidth(), Height: a.height})
		return cmd, true

	case key.Matches(msg, a.keys.GoLogout):
		if a.page == PageLogin {
			return nil, false
		}
		a.clearSession()
		return a.navigate(PageLogin), true

	case key.Matches(msg, a.keys.GoDashboard):
		if a.navDigitsActive() {
			return a.navigate(PageDashboard), true
		}
	case key.Matches(msg, a.keys.GoTasks):
		if a.navDigitsActive() {
			return a.navigate(PageTasks), true
		}
	case key.Matches(msg, a.keys.GoStats):
		if a.navDigitsActive() {
			return a.navigate(PageStats), true
		}
	case key.Matches(msg, a.keys.GoAdmin):
		if a.navDigitsActive() {
			return a.navigate(PageAdmin), true
		}
	}
	return nil, false
}

// clearSession logs out and wipes every per-account cache
func (a *App) clearSession() {
	a.deps.Session.Logout()
	a.deps.Tasks.SetTasks(nil)
	a.deps.Tasks.SetFilters(models.TaskFilters{})
	a.deps.Tasks.SetError("")
	a.deps.Comments.Reset()
}

// navDigitsActive reports whether the 1-4 page shortcuts apply. They
// are disabled on the login page and whenever the active view has a
// focused text input.
func (a *App) navDigitsActive() bool {
	if a.page == PageLogin {
		return false
	}
	type typing interface{ Typing() bool }
	if t, ok := a.current.(typing); ok && t.Typing() {
		return false
	}
	return true
}

const sidebarWidth = 18

// View renders the application
func (a *App) View() string {
	content := a.current.View()
	if !a.sidebarVisible() {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(), content)
}

func (a *App) renderSidebar() string {
	s := a.styles

	entries := []struct {
		page Page
		key  string
	}{
		{PageDashboard, "1"},
		{PageTasks, "2"},
		{PageStats, "3"},
		{PageAdmin, "4"},
	}

	rows := []string{s.Title.Render("taskdeck"), ""}
	user := a.deps.Session.User()
	for _, e := range entries {
		if e.page == PageAdmin && (user == nil || user.Role != models.RoleAdmin) {
			continue
		}
		label := fmt.Sprintf("%s %s", e.key, e.page)
		if e.page == a.page {
			rows = append(rows, s.SidebarSelected.Render(label))
		} else {
			rows = append(rows, s.SidebarItem.Render(label))
		}
	}

	if user != nil {
		rows = append(rows, "", s.TitleMuted.Render(user.Email), s.TitleMuted.Render(string(user.Role)))
	}
	rows = append(rows, "", s.HelpDesc.Render("^t theme"), s.HelpDesc.Render("^b sidebar"), s.HelpDesc.Render("^l logout"))

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return s.Sidebar.Width(sidebarWidth - 2).Height(max(0, a.height-2)).Render(body)
}

