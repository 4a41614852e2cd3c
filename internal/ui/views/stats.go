package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const statsPageSize = 100

// StatsView shows the statistics page. The headline counts come from
// the server's statistics endpoint; the breakdowns are derived from
// the fetched task set, scoped to the current user for non-admins.
type StatsView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	serverStats *models.TaskStats
	tasksLoaded bool
	statsLoaded bool
	errMsg      string
}

// NewStatsView creates the statistics view
func NewStatsView(deps *Deps, s *styles.Styles) *StatsView {
	return &StatsView{
		deps:   deps,
		styles: s,
		keys:   keys.DefaultKeyMap(),
	}
}

// SetStyles swaps in styles for the active theme
func (v *StatsView) SetStyles(s *styles.Styles) { v.styles = s }

// Init initializes the view
func (v *StatsView) Init() tea.Cmd {
	return tea.Batch(v.fetchStats(), v.fetchTasks())
}

type serverStatsMsg struct {
	stats *models.TaskStats
	err   error
}

type statsTasksMsg struct {
	page *api.TaskPage
	err  error
}

func (v *StatsView) fetchStats() tea.Cmd {
	deps := v.deps
	return func() tea.Msg {
		stats, err := deps.API.TaskStatistics(context.Background())
		return serverStatsMsg{stats: stats, err: err}
	}
}

func (v *StatsView) fetchTasks() tea.Cmd {
	deps := v.deps
	return func() tea.Msg {
		page, err := deps.API.ListTasks(context.Background(), models.TaskFilters{}, 0, statsPageSize)
		return statsTasksMsg{page: page, err: err}
	}
}

// Update handles messages
func (v *StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case serverStatsMsg:
		v.statsLoaded = true
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.errMsg = msg.err.Error()
			v.deps.Log.Warn("statistics fetch failed", zap.Error(msg.err))
			return v, nil
		}
		v.serverStats = msg.stats
		v.deps.Tasks.SetStats(*msg.stats)
		return v, nil

	case statsTasksMsg:
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

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Refresh) {
			return v, tea.Batch(v.fetchStats(), v.fetchTasks())
		}
	}

	return v, nil
}

// scopedTasks applies role scoping: regular users derive only from
// tasks assigned to them, admins from the full fetched set. The
// server scopes the list the same way.
func (v *StatsView) scopedTasks() []models.Task {
	tasks := v.deps.Tasks.Tasks()
	user := v.deps.Session.User()
	if user == nil || user.Role == models.RoleAdmin {
		return tasks
	}
	return derive.ScopeToUser(tasks, user.ID)
}

// View renders the view
func (v *StatsView) View() string {
	s := v.styles

	if !v.statsLoaded || !v.tasksLoaded {
		return s.TitleMuted.Render("Loading...")
	}

	tasks := v.scopedTasks()
	now := time.Now()

	// Headline: server figures when available, local recomputation as
	// the fallback.
	headline := derive.Compute(tasks, now)
	source := "local"
	if v.serverStats != nil {
		headline = *v.serverStats
		source = "server"
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		v.metricCard("Total", headline.Total, s.CardValue),
		v.metricCard("Completed", headline.Completed, s.TaskDone),
		v.metricCard("Pending", headline.Pending, s.TaskPriority),
		v.metricCard("Overdue", headline.Overdue, s.TaskOverdue),
	)

	rows := []string{
		s.Title.Render("Statistics") + s.TitleMuted.Render("  ("+source+")"),
		"",
		cards,
		"",
		v.renderPriorityChart(tasks),
		"",
		v.renderFigures(tasks, headline, now),
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBanner.Render(v.errMsg))
	}
	rows = append(rows, "", s.Help.Render(s.HelpKey.Render("r")+" refresh"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *StatsView) metricCard(title string, value int, valueStyle lipgloss.Style) string {
	s := v.styles
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render(title),
		valueStyle.Render(fmt.Sprintf("%d", value)),
	)
	return s.Card.Render(body)
}

const barWidth = 30

// bar renders a proportional text bar, full width at max
func (v *StatsView) bar(value, maxValue int) string {
	if maxValue == 0 {
		return ""
	}
	filled := value * barWidth / maxValue
	return v.styles.BarFill.Render(strings.Repeat("█", filled)) +
		v.styles.TitleMuted.Render(strings.Repeat("░", barWidth-filled))
}

func (v *StatsView) renderPriorityChart(tasks []models.Task) string {
	s := v.styles
	b := derive.ByPriority(tasks)

	maxCount := b.High
	if b.Medium > maxCount {
		maxCount = b.Medium
	}
	if b.Low > maxCount {
		maxCount = b.Low
	}

	row := func(label string, count int) string {
		return fmt.Sprintf("%-8s %s %d", label, v.bar(count, maxCount), count)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render("By Priority"),
		"",
		row("high", b.High),
		row("medium", b.Medium),
		row("low", b.Low),
	)
	return s.Card.Render(body)
}

func (v *StatsView) renderFigures(tasks []models.Task, headline models.TaskStats, now time.Time) string {
	s := v.styles

	trend := derive.WeeklyTrend(tasks, now)
	trendStr := fmt.Sprintf("%+d%%", trend)
	thisWeek, nextWeek := derive.DueWindows(tasks, now)

	figure := func(label, value string) string {
		return s.TitleMuted.Render(fmt.Sprintf("%-22s", label)) + s.CardValue.Render(value)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.CardTitle.Render("Trends"),
		"",
		figure("Completion rate", fmt.Sprintf("%d%%", derive.CompletionRate(headline))),
		figure("Weekly trend", trendStr),
		figure("Avg completion", fmt.Sprintf("%.1f days", derive.AvgCompletionDays(tasks))),
		figure("Due this week", fmt.Sprintf("%d", thisWeek)),
		figure("Due next week", fmt.Sprintf("%d", nextWeek)),
	)
	return s.Card.Render(body)
}
