package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

const taskPageSize = 20

// FocusArea represents which part of the task page has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusSearchInput
)

// TaskListView shows the paginated task list with its filter bar,
// the create/edit form, and the per-task comment panel.
type TaskListView struct {
	deps   *Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	searchInput textinput.Model
	skip        int
	total       int
	hasMore     bool
	loaded      bool
	errMsg      string

	// Completed/priority filter cycles
	completedFilter *bool           // nil = all
	priorityFilter  models.Priority // "" = all

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTaskID   int64
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editPriority models.Priority
	editFocusIdx int // 0=title, 1=desc, 2=due, 3=priority, 4=save
	editErr      string
	saving       bool

	// Comment panel (read-only task detail + comments)
	viewingTask   bool
	viewTaskID    int64
	commentCursor int
	commentInput  textarea.Model
	commentFocus  bool
	postingReply  bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
}

// NewTaskListView creates the task list view
func NewTaskListView(deps *Deps, s *styles.Styles) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 500
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &TaskListView{
		deps:         deps,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editDue:      editDue,
		commentInput: commentInput,
	}
}

// SetStyles swaps in styles for the active theme
func (v *TaskListView) SetStyles(s *styles.Styles) { v.styles = s }

// Typing reports whether a text input or modal owns the keyboard, in
// which case the app's page shortcuts stay out of the way.
func (v *TaskListView) Typing() bool {
	return v.focus == FocusSearchInput || v.editing || v.commentFocus || v.confirmingDelete
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks()
}

type tasksPageMsg struct {
	page *api.TaskPage
	err  error
}

type taskSavedMsg struct {
	task  *models.Task
	isNew bool
	err   error
}

type taskDeletedMsg struct {
	id  int64
	err error
}

type taskToggledMsg struct {
	task *models.Task
	err  error
}

type commentsMsg struct {
	taskID   int64
	comments []models.Comment
	err      error
}

type commentAddedMsg struct {
	taskID  int64
	comment *models.Comment
	err     error
}

type commentDeletedMsg struct {
	taskID    int64
	commentID int64
	err       error
}

// currentFilters assembles the filter object the store holds and the
// fetch passes to the server. The same predicates apply in both
// places; the client side only ever narrows the fetched page.
func (v *TaskListView) currentFilters() models.TaskFilters {
	return models.TaskFilters{
		Completed: v.completedFilter,
		Priority:  v.priorityFilter,
		Search:    strings.TrimSpace(v.searchInput.Value()),
	}
}

func (v *TaskListView) loadTasks() tea.Cmd {
	filters := v.currentFilters()
	v.deps.Tasks.SetFilters(filters)
	v.deps.Tasks.SetLoading(true)
	skip := v.skip
	deps := v.deps
	return func() tea.Msg {
		page, err := deps.API.ListTasks(context.Background(), filters, skip, taskPageSize)
		return tasksPageMsg{page: page, err: err}
	}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case tasksPageMsg:
		return v.onTasksPage(msg)

	case taskSavedMsg:
		return v.onTaskSaved(msg)

	case taskDeletedMsg:
		return v.onTaskDeleted(msg)

	case taskToggledMsg:
		return v.onTaskToggled(msg)

	case commentsMsg:
		v.deps.Comments.SetLoading(msg.taskID, false)
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return v, func() tea.Msg { return AuthExpired{} }
			}
			v.deps.Comments.SetError(msg.taskID, msg.err.Error())
			v.deps.Log.Warn("comment fetch failed", zap.Int64("task_id", msg.taskID), zap.Error(msg.err))
			return v, nil
		}
		v.deps.Comments.SetError(msg.taskID, "")
		v.deps.Comments.SetComments(msg.taskID, msg.comments)
		return v, nil

	case commentAddedMsg:
		v.postingReply = false
		if msg.err != nil {
			v.deps.Comments.SetError(msg.taskID, msg.err.Error())
			return v, nil
		}
		v.deps.Comments.SetError(msg.taskID, "")
		v.deps.Comments.AddComment(msg.taskID, *msg.comment)
		v.commentInput.Reset()
		return v, nil

	case commentDeletedMsg:
		if msg.err != nil {
			v.deps.Comments.SetError(msg.taskID, msg.err.Error())
			return v, nil
		}
		v.deps.Comments.RemoveComment(msg.taskID, msg.commentID)
		if n := len(v.deps.Comments.Comments(msg.taskID)); v.commentCursor >= n {
			v.commentCursor = max(0, n-1)
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.viewingTask {
			return v.updateViewingTask(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) onTasksPage(msg tasksPageMsg) (tea.Model, tea.Cmd) {
	v.deps.Tasks.SetLoading(false)
	v.loaded = true
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return v, func() tea.Msg { return AuthExpired{} }
		}
		v.errMsg = msg.err.Error()
		v.deps.Tasks.SetError(v.errMsg)
		v.deps.Log.Warn("task fetch failed", zap.Error(msg.err))
		return v, nil
	}
	v.errMsg = ""
	v.deps.Tasks.SetError("")
	v.deps.Tasks.SetTasks(msg.page.Items)
	v.total = msg.page.Total
	v.hasMore = msg.page.HasMore
	if v.cursor >= len(msg.page.Items) {
		v.cursor = max(0, len(msg.page.Items)-1)
	}
	return v, nil
}

func (v *TaskListView) onTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	v.saving = false
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return v, func() tea.Msg { return AuthExpired{} }
		}
		// Failed mutations leave the cached state untouched
		v.editErr = msg.err.Error()
		return v, nil
	}
	if msg.isNew {
		v.deps.Tasks.AddTask(*msg.task)
	} else {
		v.deps.Tasks.ReplaceTask(*msg.task)
	}
	v.editing = false
	v.editErr = ""
	// Refetch so pagination totals and server-side filtering stay true
	return v, v.loadTasks()
}

func (v *TaskListView) onTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return v, func() tea.Msg { return AuthExpired{} }
		}
		v.errMsg = msg.err.Error()
		v.deps.Log.Warn("task delete failed", zap.Int64("task_id", msg.id), zap.Error(msg.err))
		return v, nil
	}
	v.deps.Tasks.DeleteTask(msg.id)
	v.deps.Comments.ClearComments(msg.id)
	if v.cursor >= len(v.deps.Tasks.Tasks()) {
		v.cursor = max(0, len(v.deps.Tasks.Tasks())-1)
	}
	return v, v.loadTasks()
}

func (v *TaskListView) onTaskToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return v, func() tea.Msg { return AuthExpired{} }
		}
		v.errMsg = msg.err.Error()
		return v, nil
	}
	v.deps.Tasks.ReplaceTask(*msg.task)
	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search typing first - no hotkeys while the input has focus
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			v.skip = 0
			return v, v.loadTasks()
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			// Keep the store's filters current so the visible list
			// narrows immediately while the refetch is in flight
			v.deps.Tasks.SetFilters(v.currentFilters())
			return v, cmd
		}
	}

	visible := v.deps.Tasks.FilteredTasks()

	// Search narrows the visible list on every keystroke, so the
	// cursor can point past the end of it by the time focus returns
	// here.
	if v.cursor >= len(visible) {
		v.cursor = max(0, len(visible)-1)
	}

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

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Comments):
		if len(visible) > 0 {
			return v, v.openComments(visible[v.cursor].ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if len(visible) > 0 {
			v.startEditTask(visible[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(visible) > 0 {
			v.confirmingDelete = true
			v.deleteTargetID = visible[v.cursor].ID
			v.deleteTargetName = visible[v.cursor].Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(visible) > 0 {
			return v, v.toggleComplete(visible[v.cursor])
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.cycleCompletedFilter()
		v.skip = 0
		v.cursor = 0
		return v, v.loadTasks()

	case msg.String() == "p":
		v.cyclePriorityFilter()
		v.skip = 0
		v.cursor = 0
		return v, v.loadTasks()

	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadTasks()

	case msg.String() == "]":
		if v.hasMore {
			v.skip += taskPageSize
			v.cursor = 0
			return v, v.loadTasks()
		}
		return v, nil

	case msg.String() == "[":
		if v.skip > 0 {
			v.skip = max(0, v.skip-taskPageSize)
			v.cursor = 0
			return v, v.loadTasks()
		}
		return v, nil
	}

	return v, nil
}

// cycleCompletedFilter steps all -> pending -> done -> all
func (v *TaskListView) cycleCompletedFilter() {
	f := false
	tr := true
	switch {
	case v.completedFilter == nil:
		v.completedFilter = &f
	case !*v.completedFilter:
		v.completedFilter = &tr
	default:
		v.completedFilter = nil
	}
}

// cyclePriorityFilter steps all -> high -> medium -> low -> all
func (v *TaskListView) cyclePriorityFilter() {
	switch v.priorityFilter {
	case "":
		v.priorityFilter = models.PriorityHigh
	case models.PriorityHigh:
		v.priorityFilter = models.PriorityMedium
	case models.PriorityMedium:
		v.priorityFilter = models.PriorityLow
	default:
		v.priorityFilter = ""
	}
}

func (v *TaskListView) toggleComplete(task models.Task) tea.Cmd {
	completed := !task.Completed
	deps := v.deps
	return func() tea.Msg {
		updated, err := deps.API.UpdateTask(context.Background(), task.ID, api.TaskUpdate{Completed: &completed})
		return taskToggledMsg{task: updated, err: err}
	}
}

// --- creation / editing ---

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = 0
	v.editErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.editPriority = models.PriorityMedium
	v.editFocusIdx = 0
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editErr = ""
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editDue.SetValue(task.DueDate.Format("2006-01-02"))
	v.editPriority = task.Priority
	v.editFocusIdx = 0
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editDue.Focus()
	}
}

// validateEditForm returns the inline validation message, "" if the
// form may be submitted. Validation errors never reach the stores.
func (v *TaskListView) validateEditForm() (time.Time, string) {
	if strings.TrimSpace(v.editTitle.Value()) == "" {
		return time.Time{}, "Title is required"
	}
	due, err := time.Parse("2006-01-02", strings.TrimSpace(v.editDue.Value()))
	if err != nil {
		return time.Time{}, "Due date must be YYYY-MM-DD"
	}
	return due, ""
}

func (v *TaskListView) submitEditForm() tea.Cmd {
	due, errMsg := v.validateEditForm()
	if errMsg != "" {
		v.editErr = errMsg
		return nil
	}

	title := strings.TrimSpace(v.editTitle.Value())
	desc := strings.TrimSpace(v.editDesc.Value())
	priority := v.editPriority
	v.saving = true
	v.editErr = ""
	deps := v.deps

	if v.editingNew {
		req := api.CreateTaskRequest{
			Title:       title,
			Description: desc,
			DueDate:     due,
			Priority:    priority,
		}
		return func() tea.Msg {
			task, err := deps.API.CreateTask(context.Background(), req)
			return taskSavedMsg{task: task, isNew: true, err: err}
		}
	}

	id := v.editTaskID
	update := api.TaskUpdate{
		Title:       &title,
		Description: &desc,
		DueDate:     &due,
		Priority:    &priority,
	}
	return func() tea.Msg {
		task, err := deps.API.UpdateTask(context.Background(), id, update)
		return taskSavedMsg{task: task, err: err}
	}
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.saving {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.editErr = ""
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.submitEditForm()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 5
		v.updateEditFocus()
		return v, textinput.Blink

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 4) % 5
		v.updateEditFocus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case 3:
			v.editPriority = nextPriority(v.editPriority)
			return v, nil
		case 4:
			return v, v.submitEditForm()
		}
		if v.editFocusIdx != 1 { // enter inside the textarea inserts a newline
			v.editFocusIdx++
			v.updateEditFocus()
			return v, textinput.Blink
		}

	case msg.String() == "left", msg.String() == "right":
		if v.editFocusIdx == 3 {
			v.editPriority = nextPriority(v.editPriority)
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func nextPriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}

// --- comment panel ---

// openComments shows the panel and lazily loads the task's comments.
// The guard: no new fetch when one is already in flight or a list is
// already cached (last response wins otherwise; the store does not
// order requests).
func (v *TaskListView) openComments(taskID int64) tea.Cmd {
	v.viewingTask = true
	v.viewTaskID = taskID
	v.commentCursor = 0
	v.commentFocus = false

	if v.deps.Comments.Loading(taskID) || v.deps.Comments.HasComments(taskID) {
		return nil
	}
	return v.fetchComments(taskID)
}

func (v *TaskListView) fetchComments(taskID int64) tea.Cmd {
	v.deps.Comments.SetLoading(taskID, true)
	v.deps.Comments.SetError(taskID, "")
	deps := v.deps
	return func() tea.Msg {
		comments, err := deps.API.ListComments(context.Background(), taskID)
		return commentsMsg{taskID: taskID, comments: comments, err: err}
	}
}

func (v *TaskListView) submitComment() tea.Cmd {
	content := strings.TrimSpace(v.commentInput.Value())
	if content == "" {
		return nil
	}
	v.postingReply = true
	taskID := v.viewTaskID
	deps := v.deps
	return func() tea.Msg {
		comment, err := deps.API.AddComment(context.Background(), taskID, content)
		return commentAddedMsg{taskID: taskID, comment: comment, err: err}
	}
}

// canDeleteComment mirrors the server rule: author or admin
func (v *TaskListView) canDeleteComment(c models.Comment) bool {
	user := v.deps.Session.User()
	if user == nil {
		return false
	}
	return user.ID == c.UserID || user.Role == models.RoleAdmin
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.commentFocus {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentFocus = false
			v.commentInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitComment()
		}
		var cmd tea.Cmd
		v.commentInput, cmd = v.commentInput.Update(msg)
		return v, cmd
	}

	comments := v.deps.Comments.Comments(v.viewTaskID)

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.commentCursor > 0 {
			v.commentCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.commentCursor < len(comments)-1 {
			v.commentCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.New), key.Matches(msg, v.keys.Enter):
		v.commentFocus = true
		v.commentInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Refresh):
		return v, v.fetchComments(v.viewTaskID)

	case key.Matches(msg, v.keys.Delete):
		if v.commentCursor < len(comments) && v.canDeleteComment(comments[v.commentCursor]) {
			taskID := v.viewTaskID
			commentID := comments[v.commentCursor].ID
			deps := v.deps
			return v, func() tea.Msg {
				err := deps.API.DeleteComment(context.Background(), commentID)
				return commentDeletedMsg{taskID: taskID, commentID: commentID, err: err}
			}
		}
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		deps := v.deps
		return v, func() tea.Msg {
			err := deps.API.DeleteTask(context.Background(), id)
			return taskDeletedMsg{id: id, err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// --- rendering ---

// View renders the view
func (v *TaskListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}
	if v.viewingTask {
		return v.renderTaskDetail()
	}
	return v.renderList()
}

func (v *TaskListView) renderList() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	rows := []string{
		s.Title.Render("Tasks") + s.TitleMuted.Render(fmt.Sprintf("  %d total", v.total)),
		v.renderFilterBar(),
		"",
	}

	visible := v.deps.Tasks.FilteredTasks()
	if len(visible) == 0 {
		rows = append(rows, s.TitleMuted.Render("No tasks match"))
	}

	now := time.Now()
	for i, t := range visible {
		rows = append(rows, v.renderTaskRow(t, i == v.cursor, now, contentWidth))
	}

	if v.skip > 0 || v.hasMore {
		page := v.skip/taskPageSize + 1
		rows = append(rows, "", s.StatusBar.Render(fmt.Sprintf("page %d  [ prev  ] next", page)))
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBanner.Render(v.errMsg))
	}

	rows = append(rows, v.renderHelp())
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TaskListView) renderFilterBar() string {
	s := v.styles

	completed := "all"
	if v.completedFilter != nil {
		if *v.completedFilter {
			completed = "done"
		} else {
			completed = "pending"
		}
	}
	priority := "all"
	if v.priorityFilter != "" {
		priority = string(v.priorityFilter)
	}

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		searchStyle.Width(30).Render(v.searchInput.View()),
		"  ",
		s.TitleMuted.Render("f:")+s.HelpKey.Render(completed),
		"  ",
		s.TitleMuted.Render("p:")+s.HelpKey.Render(priority),
	)
}

func (v *TaskListView) renderTaskRow(t models.Task, selected bool, now time.Time, contentWidth int) string {
	s := v.styles

	check := "[ ]"
	if t.Completed {
		check = s.TaskDone.Render("[x]")
	}

	due := formatDate(t.DueDate)
	dueRendered := s.TitleMuted.Render(due)
	if t.Overdue(now) {
		dueRendered = s.TaskOverdue.Render(due + " !")
	}

	prio := s.TaskPriority.Render(string(t.Priority))
	line := fmt.Sprintf("%s %-*s %s %s", check, clamp(contentWidth-30, 20, 50), truncateString(t.Title, clamp(contentWidth-30, 20, 50)), prio, dueRendered)

	if selected {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

func truncateString(str string, limit int) string {
	if len(str) <= limit {
		return str
	}
	if limit <= 1 {
		return "…"
	}
	return str[:limit-1] + "…"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 50)

	title := "Edit Task"
	if v.editingNew {
		title = "New Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	saveStyle := s.Button
	if v.editFocusIdx == 4 {
		saveStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render(title),
		"",
		"Title:",
		fieldStyle(0).Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		fieldStyle(1).Width(inputWidth).Render(v.editDesc.View()),
		"",
		"Due date:",
		fieldStyle(2).Width(inputWidth).Render(v.editDue.View()),
		"",
		"Priority: " + v.renderPrioritySelector(),
		"",
		saveStyle.Render(" Save "),
	}

	switch {
	case v.saving:
		rows = append(rows, "", s.TitleMuted.Render("Saving..."))
	case v.editErr != "":
		rows = append(rows, "", s.ErrorBanner.Width(inputWidth).Render(v.editErr))
	}

	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderPrioritySelector() string {
	s := v.styles
	var parts []string
	for _, p := range []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		label := " " + string(p) + " "
		if p == v.editPriority {
			parts = append(parts, s.ButtonPrimary.Render(label))
		} else {
			parts = append(parts, s.TitleMuted.Render(label))
		}
	}
	marker := "  "
	if v.editFocusIdx == 3 {
		marker = s.HelpKey.Render("> ")
	}
	return marker + strings.Join(parts, " ")
}

func (v *TaskListView) renderTaskDetail() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var task *models.Task
	for _, t := range v.deps.Tasks.Tasks() {
		if t.ID == v.viewTaskID {
			copied := t
			task = &copied
			break
		}
	}
	if task == nil {
		return s.TitleMuted.Render("Task no longer cached")
	}

	rows := []string{
		s.Title.Render(task.Title),
		s.TitleMuted.Render(fmt.Sprintf("%s • due %s • %s",
			task.Priority, formatDate(task.DueDate), statusLabel(*task))),
		"",
	}
	if task.Description != "" {
		rows = append(rows, task.Description, "")
	}

	rows = append(rows, s.CardTitle.Render("Comments"), "")

	switch {
	case v.deps.Comments.Loading(v.viewTaskID):
		rows = append(rows, s.TitleMuted.Render("Loading comments..."))
	case v.deps.Comments.Error(v.viewTaskID) != "":
		rows = append(rows, s.ErrorBanner.Render(v.deps.Comments.Error(v.viewTaskID)))
	default:
		comments := v.deps.Comments.Comments(v.viewTaskID)
		if len(comments) == 0 {
			rows = append(rows, s.TitleMuted.Render("No comments yet"))
		}
		for i, c := range comments {
			rows = append(rows, v.renderComment(c, i == v.commentCursor && !v.commentFocus))
		}
	}

	rows = append(rows, "")
	inputStyle := s.Input
	if v.commentFocus {
		inputStyle = s.InputFocused
	}
	rows = append(rows, inputStyle.Width(clamp(contentWidth-10, 20, 50)).Render(v.commentInput.View()))

	if v.postingReply {
		rows = append(rows, s.TitleMuted.Render("Posting..."))
	}

	help := "↵/n comment • d delete • r reload • esc back"
	if v.commentFocus {
		help = "Ctrl+S: post • Esc: cancel"
	}
	rows = append(rows, "", s.Help.Render(help))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}

func statusLabel(t models.Task) string {
	if t.Completed {
		return "done"
	}
	return "pending"
}

func (v *TaskListView) renderComment(c models.Comment, selected bool) string {
	s := v.styles

	author := fmt.Sprintf("user %d", c.UserID)
	if c.User != nil && c.User.Username != "" {
		author = c.User.Username
	} else if c.User != nil {
		author = c.User.Email
	}

	header := s.HelpKey.Render(author) + s.TitleMuted.Render(" • "+formatDate(c.CreatedAt))
	if v.canDeleteComment(c) {
		header += s.TitleMuted.Render(" (d to delete)")
	}

	body := header + "\n" + c.Content
	if selected {
		return s.ListSelected.Render(body)
	}
	return s.ListItem.Render(body)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be permanently removed", v.deleteTargetName)),
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

func (v *TaskListView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s comments • %s new • %s edit • %s del • %s done • %s search • %s filter",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("/"),
			s.HelpKey.Render("f"),
		),
	)
}
