package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/derive"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// dashboardPageSize bounds the working set a dashboard derives from.
// The server caps limit at 100 anyway.
const dashboardPageSize = 100

// DashboardView shows the metric cards plus recent and upcoming
// tasks. All figures here are recomputed from the cached task list;
// the statistics view is where the server's canonical counts appear.
type DashboardView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int
	loaded bool
	errMsg string
}

// NewDashboardView creates the dashboard view
func NewDashboardView(deps *Deps, s *styles.Styles) *DashboardView {
	return &DashboardView{
		deps:   deps,
		styles: s,
		keys:   keys.DefaultKeyMap(),
	}
}

// SetStyles swaps in styles for the active theme
func (v *DashboardView) SetStyles(s *styles.Styles) { v.styles = s }

// Init initializes the view
func (v *DashboardView) Init() tea.Cmd {
	v.deps.Tasks.SetLoading(true)
	return v.fetchTasks()
}

type dashboardTasksMsg struct {
	page *api.TaskPage
	err  error
}

func (v *DashboardView) fetchTasks() tea.Cmd {
	deps := v.deps
	return func() tea.Msg {
		// The dashboard always derives from the unfiltered set; the
		// server scopes regular users to their own tasks.
		page, err := deps.API.ListTasks(context.Background(), models.TaskFilters{}, 0, dashboardPageSize)
		return dashboardTasksMsg{page: page, err: err}
	}
}

// Update handles messages
func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dashboardTasksMsg:
		v.deps.Tasks.SetLoading(false)
		v.loaded = true
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.errMsg = msg.err.Error()
			v.deps.Tasks.SetError(v.errMsg)
			v.deps.Log.Warn("dashboard fetch failed", zap.Error(msg.err))
			return v, nil
		}
		v.errMsg = ""
		v.deps.Tasks.SetError("")
		v.deps.Tasks.SetTasks(msg.page.Items)
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Refresh) {
			v.deps.Tasks.SetLoading(true)
			return v, v.fetchTasks()
		}
	}

	return v, nil
}

// View renders the view
func (v *DashboardView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	tasks := v.deps.Tasks.Tasks()
	now := time.Now()
	stats := derive.Compute(tasks, now)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		v.metricCard("Total", stats.Total, s.CardValue),
		v.metricCard("Completed", stats.Completed, s.TaskDone),
		v.metricCard("Pending", stats.Pending, s.TaskPriority),
		v.metricCard("Overdue", stats.Overdue, s.TaskOverdue),
	)

	recent := v.taskPanel("Recent Tasks", derive.Recent(tasks, 5), func(t models.Task) string {
		status := s.TaskPriority.Render("pending")
		if t.Completed {
			status = s.TaskDone.Render("done")
		}
		return fmt.Sprintf("%s  %s", status, t.Title)
	})

	upcoming := v.taskPanel("Upcoming Deadlines", derive.Upcoming(tasks, now, 5), func(t models.Task) string {
		return fmt.Sprintf("%s  %s", s.TitleMuted.Render(formatDate(t.DueDate)), t.Title)
	})

	panelWidth := clamp(contentWidth/2-2, 30, 48)
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(panelWidth).Render(recent),
		"  ",
		lipgloss.NewStyle().Width(panelWidth).Render(upcoming),
	)

	rows := []string{
		s.Title.Render("Dashboard"),
		"",
		cards,
		"",
		panels,
	}
	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBanner.Render(v.errMsg))
	}
	rows = append(rows, "", s.Help.Render(s.HelpKey.Render("r")+" refresh"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) metricCard(title string, value int, valueStyle lipgloss.Style) string {
	s := v.styles
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render(title),
		valueStyle.Render(fmt.Sprintf("%d", value)),
	)
	return s.Card.Render(body)
}

func (v *DashboardView) taskPanel(title string, tasks []models.Task, render func(models.Task) string) string {
	s := v.styles
	rows := []string{s.CardTitle.Render(title), ""}
	if len(tasks) == 0 {
		rows = append(rows, s.TitleMuted.Render("Nothing here"))
	}
	for _, t := range tasks {
		rows = append(rows, render(t))
	}
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
