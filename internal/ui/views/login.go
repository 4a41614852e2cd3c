package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// LoginView handles authentication and account registration
type LoginView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	signup     bool // false = login form, true = signup form
	submitting bool
	errMsg     string
	infoMsg    string

	email    textinput.Model
	password textinput.Model
	fullName textinput.Model
	role     models.Role
	focusIdx int
}

// NewLoginView creates the login view
func NewLoginView(deps *Deps, s *styles.Styles) *LoginView {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	fullName := textinput.New()
	fullName.Placeholder = "Full name"
	fullName.CharLimit = 100

	v := &LoginView{
		deps:     deps,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
		fullName: fullName,
		role:     models.RoleRegular,
	}
	v.email.Focus()
	return v
}

// SetStyles swaps in styles for the active theme
func (v *LoginView) SetStyles(s *styles.Styles) { v.styles = s }

// Init initializes the view
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginResultMsg struct {
	resp *api.LoginResponse
	err  error
}

type registerResultMsg struct {
	user *models.User
	err  error
}

func (v *LoginView) submitLogin() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	deps := v.deps
	return func() tea.Msg {
		resp, err := deps.API.Login(context.Background(), email, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (v *LoginView) submitRegister() tea.Cmd {
	req := api.RegisterRequest{
		Email:    strings.TrimSpace(v.email.Value()),
		FullName: strings.TrimSpace(v.fullName.Value()),
		Password: v.password.Value(),
		Role:     v.role,
	}
	deps := v.deps
	return func() tea.Msg {
		user, err := deps.API.Register(context.Background(), req)
		return registerResultMsg{user: user, err: err}
	}
}

// validate catches empty fields before a request goes out; everything
// else is the server's call.
func (v *LoginView) validate() string {
	if strings.TrimSpace(v.email.Value()) == "" {
		return "Email is required"
	}
	if v.password.Value() == "" {
		return "Password is required"
	}
	if v.signup && strings.TrimSpace(v.fullName.Value()) == "" {
		return "Full name is required"
	}
	return ""
}

// Update handles messages
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.deps.Log.Warn("login failed", zap.Error(msg.err))
			return v, nil
		}
		v.deps.Session.Login(msg.resp.User, msg.resp.AccessToken)
		v.password.Reset()
		v.errMsg = ""
		return v, func() tea.Msg { return LoggedIn{} }

	case registerResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.deps.Log.Warn("registration failed", zap.Error(msg.err))
			return v, nil
		}
		// Registration doesn't log in; flip back to the login form
		v.signup = false
		v.infoMsg = "Account created, sign in to continue"
		v.errMsg = ""
		v.password.Reset()
		v.setFocus(0)
		return v, nil

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		return v.updateKeys(msg)
	}

	return v, nil
}

func (v *LoginView) fieldCount() int {
	if v.signup {
		return 4 // email, full name, password, role
	}
	return 2 // email, password
}

func (v *LoginView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case msg.String() == "ctrl+s":
		// Toggle between login and signup
		v.signup = !v.signup
		v.errMsg = ""
		v.infoMsg = ""
		v.setFocus(0)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Tab):
		v.setFocus((v.focusIdx + 1) % v.fieldCount())
		return v, textinput.Blink

	case msg.String() == "shift+tab":
		v.setFocus((v.focusIdx + v.fieldCount() - 1) % v.fieldCount())
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		if v.signup && v.focusIdx == 3 {
			// Role selector: enter cycles instead of submitting
			v.cycleRole()
			return v, nil
		}
		if msg := v.validate(); msg != "" {
			v.errMsg = msg
			return v, nil
		}
		v.submitting = true
		v.errMsg = ""
		v.infoMsg = ""
		if v.signup {
			return v, v.submitRegister()
		}
		return v, v.submitLogin()

	case msg.String() == "left", msg.String() == "right":
		if v.signup && v.focusIdx == 3 {
			v.cycleRole()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		if v.signup {
			v.fullName, cmd = v.fullName.Update(msg)
		} else {
			v.password, cmd = v.password.Update(msg)
		}
	case 2:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) cycleRole() {
	if v.role == models.RoleRegular {
		v.role = models.RoleAdmin
	} else {
		v.role = models.RoleRegular
	}
}

func (v *LoginView) setFocus(idx int) {
	v.focusIdx = idx
	v.email.Blur()
	v.fullName.Blur()
	v.password.Blur()

	switch {
	case idx == 0:
		v.email.Focus()
	case idx == 1 && v.signup:
		v.fullName.Focus()
	case idx == 1 && !v.signup:
		v.password.Focus()
	case idx == 2:
		v.password.Focus()
	}
}

// View renders the view
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 24, 44)

	title := "Sign In"
	if v.signup {
		title = "Create Account"
	}

	rows := []string{
		s.Title.Render("taskdeck"),
		s.TitleMuted.Render(title),
		"",
		"Email:",
		v.inputStyle(0).Width(inputWidth).Render(v.email.View()),
	}

	if v.signup {
		rows = append(rows,
			"",
			"Full name:",
			v.inputStyle(1).Width(inputWidth).Render(v.fullName.View()),
			"",
			"Password:",
			v.inputStyle(2).Width(inputWidth).Render(v.password.View()),
			"",
			"Role: "+v.roleSelector(),
		)
	} else {
		rows = append(rows,
			"",
			"Password:",
			v.inputStyle(1).Width(inputWidth).Render(v.password.View()),
		)
	}

	rows = append(rows, "")
	switch {
	case v.submitting:
		rows = append(rows, s.TitleMuted.Render("Submitting..."))
	case v.errMsg != "":
		rows = append(rows, s.ErrorBanner.Width(inputWidth).Render(v.errMsg))
	case v.infoMsg != "":
		rows = append(rows, s.TitleMuted.Render(v.infoMsg))
	}

	hint := "↵ sign in • tab next • ctrl+s sign up • ctrl+c quit"
	if v.signup {
		hint = "↵ create • tab next • ctrl+s back to sign in • ctrl+c quit"
	}
	rows = append(rows, "", s.Help.Render(hint))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *LoginView) inputStyle(idx int) lipgloss.Style {
	if v.focusIdx == idx {
		return v.styles.InputFocused
	}
	return v.styles.Input
}

func (v *LoginView) roleSelector() string {
	s := v.styles
	regular := s.TitleMuted.Render(" regular ")
	admin := s.TitleMuted.Render(" admin ")
	if v.role == models.RoleRegular {
		regular = s.ButtonPrimary.Render(" regular ")
	} else {
		admin = s.ButtonPrimary.Render(" admin ")
	}
	marker := "  "
	if v.focusIdx == 3 {
		marker = s.HelpKey.Render("> ")
	}
	return marker + regular + " " + admin
}
