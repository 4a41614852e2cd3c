package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "Write report", Description: "quarterly numbers", Completed: false, Priority: models.PriorityHigh, AssignedTo: 1},
		{ID: 2, Title: "Review PR", Description: "auth refactor", Completed: true, Priority: models.PriorityMedium, AssignedTo: 2},
		{ID: 3, Title: "Plan sprint", Description: "next iteration", Completed: false, Priority: models.PriorityLow, AssignedTo: 1},
		{ID: 4, Title: "Fix login bug", Description: "report from QA", Completed: false, Priority: models.PriorityHigh, AssignedTo: 2},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestFilteredTasksNoFilters(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())

	got := s.FilteredTasks()
	require.Len(t, got, 4)
	// Cache order is preserved, no implicit sort
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(4), got[3].ID)
}

func TestFilteredTasksPredicates(t *testing.T) {
	tests := []struct {
		name    string
		filters models.TaskFilters
		wantIDs []int64
	}{
		{"completed true", models.TaskFilters{Completed: boolPtr(true)}, []int64{2}},
		{"completed false", models.TaskFilters{Completed: boolPtr(false)}, []int64{1, 3, 4}},
		{"priority", models.TaskFilters{Priority: models.PriorityHigh}, []int64{1, 4}},
		{"assigned", models.TaskFilters{AssignedTo: 1}, []int64{1, 3}},
		{"search title", models.TaskFilters{Search: "LOGIN"}, []int64{4}},
		{"search description", models.TaskFilters{Search: "report"}, []int64{1, 4}},
		{"and of all", models.TaskFilters{Completed: boolPtr(false), Priority: models.PriorityHigh, AssignedTo: 2, Search: "login"}, []int64{4}},
		{"and excludes", models.TaskFilters{Completed: boolPtr(true), Priority: models.PriorityHigh}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTaskStore()
			s.SetTasks(sampleTasks())
			s.SetFilters(tt.filters)

			var gotIDs []int64
			for _, task := range s.FilteredTasks() {
				gotIDs = append(gotIDs, task.ID)
			}
			require.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestSetFiltersReplacesWholesale(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())
	s.SetFilters(models.TaskFilters{Completed: boolPtr(true), Priority: models.PriorityMedium})

	// Replacing with a search-only filter must drop the old predicates
	s.SetFilters(models.TaskFilters{Search: "sprint"})
	got := s.FilteredTasks()
	require.Len(t, got, 1)
	require.Equal(t, int64(3), got[0].ID)
}

func TestAddThenDeleteRoundTrip(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())
	before := len(s.Tasks())

	s.AddTask(models.Task{ID: 99, Title: "Temp"})
	require.Len(t, s.Tasks(), before+1)

	s.DeleteTask(99)
	require.Len(t, s.Tasks(), before)
	for _, task := range s.Tasks() {
		require.NotEqual(t, int64(99), task.ID)
	}
}

func TestUpdateTaskToggleRoundTrip(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())
	original := s.Tasks()[0]

	s.UpdateTask(original.ID, TaskPatch{Completed: boolPtr(true)})
	require.True(t, s.Tasks()[0].Completed)

	s.UpdateTask(original.ID, TaskPatch{Completed: boolPtr(false)})
	require.Equal(t, original, s.Tasks()[0])
}

func TestUpdateTaskAbsentIDIsNoop(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())

	title := "ghost"
	s.UpdateTask(12345, TaskPatch{Title: &title})
	require.Len(t, s.Tasks(), 4)
	for _, task := range s.Tasks() {
		require.NotEqual(t, "ghost", task.Title)
	}
}

func TestDeleteTaskAbsentIDIsNoop(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())
	s.DeleteTask(12345)
	require.Len(t, s.Tasks(), 4)
}

func TestReplaceTask(t *testing.T) {
	s := NewTaskStore()
	s.SetTasks(sampleTasks())

	updated := sampleTasks()[0]
	updated.Title = "Write report v2"
	updated.UpdatedAt = time.Now()
	s.ReplaceTask(updated)
	require.Equal(t, "Write report v2", s.Tasks()[0].Title)

	// Unknown id does not synthesize an entry
	s.ReplaceTask(models.Task{ID: 12345})
	require.Len(t, s.Tasks(), 4)
}

func TestSetStats(t *testing.T) {
	s := NewTaskStore()
	require.Nil(t, s.Stats())

	s.SetStats(models.TaskStats{Total: 10, Completed: 4, Pending: 6, Overdue: 2})
	require.Equal(t, 10, s.Stats().Total)
	require.Equal(t, 2, s.Stats().Overdue)
}
