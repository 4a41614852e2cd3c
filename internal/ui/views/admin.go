package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/derive"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

const adminPageSize = 100

// AdminView is the admin dashboard: user management plus the
// system-wide breakdowns. Only admins ever reach this view; the app's
// navigation gate redirects everyone else.
type AdminView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	users       []models.User
	usersLoaded bool
	tasksLoaded bool
	errMsg      string

	cursor      int
	searching   bool
	searchInput textinput.Model

	// User editing: role and active flag only
	editing     bool
	editUserID  int64
	editRole    models.Role
	editActive  bool
	editFocus   int // 0=role, 1=active, 2=save
	savingUser  bool
	editErrMsg  string

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
}

// NewAdminView creates the admin dashboard view
func NewAdminView(deps *Deps, s *styles.Styles) *AdminView {
	search := textinput.New()
	search.Placeholder = "Search users..."
	search.CharLimit = 100

	return &AdminView{
		deps:        deps,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		searchInput: search,
	}
}

// SetStyles swaps in styles for the active theme
func (v *AdminView) SetStyles(s *styles.Styles) { v.styles = s }

// Typing reports whether a text input or modal owns the keyboard
func (v *AdminView) Typing() bool {
	return v.searching || v.editing || v.confirmingDelete
}

// Init initializes the view
func (v *AdminView) Init() tea.Cmd {
	return tea.Batch(v.fetchUsers(), v.fetchTasks())
}

type adminUsersMsg struct {
	users []models.User
	err   error
}

type adminTasksMsg struct {
	page *api.TaskPage
	err  error
}

type userSavedMsg struct {
	user *models.User
	err  error
}

type userDeletedMsg struct {
	id  int64
	err error
}

func (v *AdminView) fetchUsers() tea.Cmd {
	deps := v.deps
	return func() tea.Msg {
		users, err := deps.API.ListUsers(context.Background())
		return adminUsersMsg{users: users, err: err}
	}
}

func (v *AdminView) fetchTasks() tea.Cmd {
	deps := v.deps
	return func() tea.Msg {
		page, err := deps.API.ListTasks(context.Background(), models.TaskFilters{}, 0, adminPageSize)
		return adminTasksMsg{page: page, err: err}
	}
}

// Update handles messages
func (v *AdminView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case adminUsersMsg:
		v.usersLoaded = true
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.errMsg = msg.err.Error()
			v.deps.Log.Warn("user list fetch failed", zap.Error(msg.err))
			return v, nil
		}
		v.errMsg = ""
		v.users = msg.users
		if v.cursor >= len(v.users) {
			v.cursor = max(0, len(v.users)-1)
		}
		return v, nil

	case adminTasksMsg:
		v.tasksLoaded = true
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.deps.Tasks.SetTasks(msg.page.Items)
		return v, nil

	case userSavedMsg:
		v.savingUser = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.editErrMsg = msg.err.Error()
			return v, nil
		}
		v.editing = false
		v.editErrMsg = ""
		for i := range v.users {
			if v.users[i].ID == msg.user.ID {
				v.users[i] = *msg.user
				break
			}
		}
		// Editing yourself updates the session identity too
		if current := v.deps.Session.User(); current != nil && current.ID == msg.user.ID {
			v.deps.Session.UpdateUser(userPatchFrom(msg.user))
		}
		return v, nil

	case userDeletedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.errMsg = msg.err.Error()
			v.deps.Log.Warn("user delete failed", zap.Int64("user_id", msg.id), zap.Error(msg.err))
			return v, nil
		}
		kept := v.users[:0]
		for _, u := range v.users {
			if u.ID != msg.id {
				kept = append(kept, u)
			}
		}
		v.users = kept
		if v.cursor >= len(v.users) {
			v.cursor = max(0, len(v.users)-1)
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func userPatchFrom(u *models.User) store.UserPatch {
	return store.UserPatch{Role: &u.Role, IsActive: &u.IsActive}
}

// visibleUsers applies the search text over email and full name,
// case-insensitive, the same match the user list page offers.
func (v *AdminView) visibleUsers() []models.User {
	query := strings.ToLower(strings.TrimSpace(v.searchInput.Value()))
	if query == "" {
		return v.users
	}
	var out []models.User
	for _, u := range v.users {
		if strings.Contains(strings.ToLower(u.Email), query) ||
			strings.Contains(strings.ToLower(u.FullName), query) {
			out = append(out, u)
		}
	}
	return out
}

func (v *AdminView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.searching {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searching = false
			v.searchInput.Blur()
			v.cursor = 0
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, cmd
		}
	}

	visible := v.visibleUsers()

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if len(visible) > 0 {
			u := visible[v.cursor]
			v.editing = true
			v.editUserID = u.ID
			v.editRole = u.Role
			v.editActive = u.IsActive
			v.editFocus = 0
			v.editErrMsg = ""
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(visible) > 0 {
			u := visible[v.cursor]
			// No deleting your own account from the admin page
			if current := v.deps.Session.User(); current != nil && current.ID == u.ID {
				v.errMsg = "You cannot delete your own account"
				return v, nil
			}
			v.confirmingDelete = true
			v.deleteTargetID = u.ID
			v.deleteTargetName = u.Email
		}
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, tea.Batch(v.fetchUsers(), v.fetchTasks())
	}

	return v, nil
}

func (v *AdminView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.savingUser {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocus = (v.editFocus + 1) % 3
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocus = (v.editFocus + 2) % 3
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == "left", msg.String() == "right":
		switch v.editFocus {
		case 0:
			if v.editRole == models.RoleAdmin {
				v.editRole = models.RoleRegular
			} else {
				v.editRole = models.RoleAdmin
			}
		case 1:
			v.editActive = !v.editActive
		case 2:
			if key.Matches(msg, v.keys.Enter) {
				return v, v.submitUserEdit()
			}
		}
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submitUserEdit()
	}

	return v, nil
}

func (v *AdminView) submitUserEdit() tea.Cmd {
	v.savingUser = true
	v.editErrMsg = ""
	id := v.editUserID
	role := v.editRole
	active := v.editActive
	deps := v.deps
	return func() tea.Msg {
		user, err := deps.API.UpdateUser(context.Background(), id, api.UserUpdate{
			Role:     &role,
			IsActive: &active,
		})
		return userSavedMsg{user: user, err: err}
	}
}

func (v *AdminView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		deps := v.deps
		return v, func() tea.Msg {
			err := deps.API.DeleteUser(context.Background(), id)
			return userDeletedMsg{id: id, err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// --- rendering ---

// View renders the view
func (v *AdminView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}
	return v.renderDashboard()
}

func (v *AdminView) renderDashboard() string {
	s := v.styles

	if !v.usersLoaded || !v.tasksLoaded {
		return s.TitleMuted.Render("Loading...")
	}

	breakdown := derive.ByRole(v.users)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		v.metricCard("Users", breakdown.Total),
		v.metricCard("Active", breakdown.Active),
		v.metricCard("Admins", breakdown.Admins),
		v.metricCard("Regular", breakdown.Regular),
	)

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}

	rows := []string{
		s.Title.Render("Admin Dashboard"),
		"",
		cards,
		"",
		searchStyle.Width(34).Render(v.searchInput.View()),
		"",
	}

	now := time.Now()
	loads := derive.PerUser(v.visibleUsers(), v.deps.Tasks.Tasks(), now)
	if len(loads) == 0 {
		rows = append(rows, s.TitleMuted.Render("No users match"))
	}
	for i, load := range loads {
		rows = append(rows, v.renderUserRow(load, i == v.cursor && !v.searching))
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBanner.Render(v.errMsg))
	}

	rows = append(rows, v.renderHelp())
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *AdminView) metricCard(title string, value int) string {
	s := v.styles
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render(title),
		s.CardValue.Render(fmt.Sprintf("%d", value)),
	)
	return s.Card.Render(body)
}

func (v *AdminView) renderUserRow(load derive.UserTaskLoad, selected bool) string {
	s := v.styles
	u := load.User

	role := s.TitleMuted.Render(string(u.Role))
	if u.Role == models.RoleAdmin {
		role = s.TaskPriority.Render(string(u.Role))
	}

	status := s.TaskDone.Render("active")
	if !u.IsActive {
		status = s.TaskOverdue.Render("inactive")
	}

	line := fmt.Sprintf("%-28s %s %s  %d tasks, %d done, %d overdue",
		truncateString(u.Email, 28), role, status,
		load.Total, load.Completed, load.Overdue)

	if selected {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

func (v *AdminView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var target *models.User
	for i := range v.users {
		if v.users[i].ID == v.editUserID {
			target = &v.users[i]
			break
		}
	}
	name := fmt.Sprintf("user %d", v.editUserID)
	if target != nil {
		name = target.Email
	}

	focused := func(idx int, label string) string {
		if v.editFocus == idx {
			return s.HelpKey.Render("> ") + label
		}
		return "  " + label
	}

	role := s.ButtonPrimary.Render(" " + string(v.editRole) + " ")
	active := s.TaskDone.Render(" active ")
	if !v.editActive {
		active = s.TaskOverdue.Render(" inactive ")
	}

	saveStyle := s.Button
	if v.editFocus == 2 {
		saveStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render("Edit User"),
		s.TitleMuted.Render(name),
		"",
		focused(0, "Role:   ") + role,
		focused(1, "Status: ") + active,
		"",
		saveStyle.Render(" Save "),
	}

	switch {
	case v.savingUser:
		rows = append(rows, "", s.TitleMuted.Render("Saving..."))
	case v.editErrMsg != "":
		rows = append(rows, "", s.ErrorBanner.Render(v.editErrMsg))
	}

	rows = append(rows, "", s.TitleMuted.Render("↵/←/→ toggle • Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *AdminView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete User?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%s and their tasks will be removed", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *AdminView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s edit • %s delete • %s search • %s refresh",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("r"),
		),
	)
}
