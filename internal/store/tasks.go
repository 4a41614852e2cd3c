package store

import (
	"strings"
	"time"

	"taskdeck/internal/models"
)

// TaskPatch is a partial task update for UpdateTask; nil fields are
// left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Priority    *models.Priority
}

// TaskStore caches the working set of tasks together with the active
// filter criteria and the last-fetched aggregate stats. It is a pure
// data container: methods never fail, and all network error handling
// stays with the caller. The remote API remains the source of truth;
// mutations here mirror already-successful API calls.
type TaskStore struct {
	tasks   []models.Task
	filters models.TaskFilters
	stats   *models.TaskStats
	loading bool
	err     string
}

// NewTaskStore creates an empty task store
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// SetTasks replaces the entire cached list
func (s *TaskStore) SetTasks(tasks []models.Task) {
	s.tasks = tasks
}

// AddTask appends a task to the cache
func (s *TaskStore) AddTask(task models.Task) {
	s.tasks = append(s.tasks, task)
}

// UpdateTask shallow-merges the patch into the task with the given
// id. An absent id is a no-op; no entry is synthesized.
func (s *TaskStore) UpdateTask(id int64, patch TaskPatch) {
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		t := &s.tasks[i]
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		return
	}
}

// ReplaceTask swaps the cached copy for the server's copy of the same
// task; a no-op if the id is not cached.
func (s *TaskStore) ReplaceTask(task models.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
}

// DeleteTask removes the task with the given id; a no-op if absent
func (s *TaskStore) DeleteTask(id int64) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// SetFilters replaces the active filters wholesale (no merge)
func (s *TaskStore) SetFilters(filters models.TaskFilters) {
	s.filters = filters
}

// SetStats replaces the cached aggregate counts
func (s *TaskStore) SetStats(stats models.TaskStats) {
	s.stats = &stats
}

// SetLoading records whether a fetch is in flight
func (s *TaskStore) SetLoading(loading bool) {
	s.loading = loading
}

// SetError records the last fetch error message, "" for none
func (s *TaskStore) SetError(msg string) {
	s.err = msg
}

// Tasks returns the cached list in fetch order
func (s *TaskStore) Tasks() []models.Task {
	return s.tasks
}

// Filters returns the active filter criteria
func (s *TaskStore) Filters() models.TaskFilters {
	return s.filters
}

// Stats returns the last-fetched aggregate counts, or nil
func (s *TaskStore) Stats() *models.TaskStats {
	return s.stats
}

// Loading reports whether a fetch is in flight
func (s *TaskStore) Loading() bool {
	return s.loading
}

// Error returns the last fetch error message, "" for none
func (s *TaskStore) Error() string {
	return s.err
}

// FilteredTasks returns the cached tasks passing every defined filter
// predicate. An unset predicate matches everything. Search is a
// case-insensitive substring match against title or description. The
// order of the underlying cache is preserved; nothing is sorted.
func (s *TaskStore) FilteredTasks() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if matchesFilters(t, s.filters) {
			out = append(out, t)
		}
	}
	return out
}

func matchesFilters(t models.Task, f models.TaskFilters) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != 0 && t.AssignedTo != f.AssignedTo {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
	}
	return true
}
