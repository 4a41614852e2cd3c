package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return now.AddDate(0, 0, offset)
}

func TestComputeOverdue(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Completed: false, DueDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	stats := Compute(tasks, now)
	require.Equal(t, models.TaskStats{Total: 1, Completed: 0, Pending: 1, Overdue: 1}, stats)

	// Completing the task removes it from the overdue set on
	// recomputation.
	tasks[0].Completed = true
	stats = Compute(tasks, now)
	require.Equal(t, models.TaskStats{Total: 1, Completed: 1, Pending: 0, Overdue: 0}, stats)
}

func TestComputeMixed(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Completed: true, DueDate: day(-2)},  // completed, past due date: not overdue
		{ID: 2, Completed: false, DueDate: day(-1)}, // overdue
		{ID: 3, Completed: false, DueDate: day(3)},  // pending, not overdue
	}

	stats := Compute(tasks, now)
	require.Equal(t, models.TaskStats{Total: 3, Completed: 1, Pending: 2, Overdue: 1}, stats)
}

func TestRecent(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 7; i++ {
		tasks = append(tasks, models.Task{ID: int64(i + 1), CreatedAt: day(-i)})
	}

	got := Recent(tasks, 5)
	require.Len(t, got, 5)
	require.Equal(t, int64(1), got[0].ID) // newest first
	require.Equal(t, int64(5), got[4].ID)

	// Input order is untouched
	require.Equal(t, int64(1), tasks[0].ID)
}

func TestUpcoming(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Completed: false, DueDate: day(5)},
		{ID: 2, Completed: false, DueDate: day(-1)}, // already due, excluded
		{ID: 3, Completed: true, DueDate: day(2)},   // completed, excluded
		{ID: 4, Completed: false, DueDate: day(1)},
		{ID: 5, Completed: false, DueDate: day(3)},
	}

	got := Upcoming(tasks, now, 2)
	require.Len(t, got, 2)
	require.Equal(t, int64(4), got[0].ID) // soonest first
	require.Equal(t, int64(5), got[1].ID)
}

func TestScopeToUser(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, AssignedTo: 1},
		{ID: 2, AssignedTo: 2},
		{ID: 3, AssignedTo: 1},
	}

	got := ScopeToUser(tasks, 1)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)
}

func TestByPriority(t *testing.T) {
	tasks := []models.Task{
		{Priority: models.PriorityHigh},
		{Priority: models.PriorityHigh},
		{Priority: models.PriorityMedium},
		{Priority: models.PriorityLow},
	}
	require.Equal(t, PriorityBreakdown{High: 2, Medium: 1, Low: 1}, ByPriority(tasks))
}

func TestWeeklyTrend(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  int
	}{
		{"empty prior window yields zero", []models.Task{
			{CreatedAt: day(-1)},
			{CreatedAt: day(-2)},
		}, 0},
		{"doubled", []models.Task{
			{CreatedAt: day(-1)}, {CreatedAt: day(-2)},
			{CreatedAt: day(-10)},
		}, 100},
		{"halved", []models.Task{
			{CreatedAt: day(-1)},
			{CreatedAt: day(-8)}, {CreatedAt: day(-10)},
		}, -50},
		{"older tasks ignored", []models.Task{
			{CreatedAt: day(-1)},
			{CreatedAt: day(-20)},
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, WeeklyTrend(tt.tasks, now))
		})
	}
}

func TestCompletionRate(t *testing.T) {
	require.Equal(t, 0, CompletionRate(models.TaskStats{}))
	require.Equal(t, 50, CompletionRate(models.TaskStats{Total: 4, Completed: 2}))
	require.Equal(t, 67, CompletionRate(models.TaskStats{Total: 3, Completed: 2}))
}

func TestAvgCompletionDays(t *testing.T) {
	tasks := []models.Task{
		{Completed: true, CreatedAt: day(-4), UpdatedAt: day(-2)}, // 2 days
		{Completed: true, CreatedAt: day(-5), UpdatedAt: day(-4)}, // 1 day
		{Completed: false, CreatedAt: day(-9), UpdatedAt: day(0)}, // ignored
	}
	require.Equal(t, 1.5, AvgCompletionDays(tasks))
	require.Equal(t, 0.0, AvgCompletionDays(nil))
}

func TestDueWindows(t *testing.T) {
	tasks := []models.Task{
		{Completed: false, DueDate: day(2)},
		{Completed: false, DueDate: day(6)},
		{Completed: false, DueDate: day(9)},
		{Completed: false, DueDate: day(20)}, // beyond both windows
		{Completed: true, DueDate: day(3)},   // completed, excluded
		{Completed: false, DueDate: day(-1)}, // already overdue, excluded
	}

	thisWeek, nextWeek := DueWindows(tasks, now)
	require.Equal(t, 2, thisWeek)
	require.Equal(t, 1, nextWeek)
}

func TestByRole(t *testing.T) {
	users := []models.User{
		{ID: 1, Role: models.RoleAdmin, IsActive: true},
		{ID: 2, Role: models.RoleRegular, IsActive: true},
		{ID: 3, Role: models.RoleRegular, IsActive: false},
	}
	require.Equal(t, RoleBreakdown{Total: 3, Active: 2, Admins: 1, Regular: 2}, ByRole(users))
}

func TestPerUser(t *testing.T) {
	users := []models.User{
		{ID: 1, Email: "a@x.com"},
		{ID: 2, Email: "b@x.com"},
	}
	tasks := []models.Task{
		{ID: 10, AssignedTo: 1, Completed: true, DueDate: day(1)},
		{ID: 11, AssignedTo: 1, Completed: false, DueDate: day(-1)},
		{ID: 12, AssignedTo: 9, Completed: false, DueDate: day(1)}, // unknown user
	}

	got := PerUser(users, tasks, now)
	require.Len(t, got, 2)
	require.Equal(t, 2, got[0].Total)
	require.Equal(t, 1, got[0].Completed)
	require.Equal(t, 1, got[0].Overdue)
	require.Equal(t, 0, got[1].Total)
}
