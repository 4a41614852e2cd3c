// Package derive computes display aggregates from cached task and
// user data. Every function is pure: inputs are never mutated and the
// evaluation instant is always passed in.
//
// These figures are recomputed client-side from whatever page of
// tasks is cached, so they can diverge from the server's statistics
// endpoint when the cache is a paginated subset. The server endpoint
// stays canonical for the headline counts; these derivations exist
// for the groupings the endpoint does not expose.
package derive

import (
	"math"
	"sort"
	"time"

	"taskdeck/internal/models"
)

// Recent returns the n most recently created tasks, newest first
func Recent(tasks []models.Task, n int) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, n)
}

// Upcoming returns the n incomplete tasks due soonest after now,
// earliest due date first.
func Upcoming(tasks []models.Task, now time.Time, n int) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if !t.Completed && t.DueDate.After(now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return truncate(out, n)
}

func truncate(tasks []models.Task, n int) []models.Task {
	if len(tasks) > n {
		return tasks[:n]
	}
	return tasks
}

// Compute recalculates aggregate counts from a task list. A task is
// overdue when it is not completed and its due date is before now.
func Compute(tasks []models.Task, now time.Time) models.TaskStats {
	stats := models.TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if t.Overdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

// ScopeToUser narrows a task list to those assigned to the given
// user. Regular users' dashboards derive only from their own tasks;
// admins skip this and work on the system-wide set.
func ScopeToUser(tasks []models.Task, userID int64) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.AssignedTo == userID {
			out = append(out, t)
		}
	}
	return out
}

// PriorityBreakdown partitions tasks by priority
type PriorityBreakdown struct {
	High   int
	Medium int
	Low    int
}

// ByPriority counts tasks per priority level
func ByPriority(tasks []models.Task) PriorityBreakdown {
	var b PriorityBreakdown
	for _, t := range tasks {
		switch t.Priority {
		case models.PriorityHigh:
			b.High++
		case models.PriorityMedium:
			b.Medium++
		case models.PriorityLow:
			b.Low++
		}
	}
	return b
}

// WeeklyTrend returns the percentage change between tasks created in
// the trailing 7-day window and the preceding 7-day window. An empty
// prior window yields zero, not an error.
func WeeklyTrend(tasks []models.Task, now time.Time) int {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var thisWeek, lastWeek int
	for _, t := range tasks {
		switch {
		case !t.CreatedAt.Before(weekAgo):
			thisWeek++
		case !t.CreatedAt.Before(twoWeeksAgo):
			lastWeek++
		}
	}

	if lastWeek == 0 {
		return 0
	}
	return int(math.Round(float64(thisWeek-lastWeek) / float64(lastWeek) * 100))
}

// CompletionRate returns completed as a rounded percentage of total,
// zero when there are no tasks.
func CompletionRate(stats models.TaskStats) int {
	if stats.Total == 0 {
		return 0
	}
	return int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
}

// AvgCompletionDays returns the mean creation-to-completion interval
// of completed tasks in days, rounded to one decimal. Completion time
// is approximated by the last update, which for a completed task is
// the completion toggle.
func AvgCompletionDays(tasks []models.Task) float64 {
	var total float64
	var n int
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		total += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(total/float64(n)*10) / 10
}

// DueWindows counts incomplete tasks due within the next 7 days and
// within the 7 days after that.
func DueWindows(tasks []models.Task, now time.Time) (thisWeek, nextWeek int) {
	weekFromNow := now.AddDate(0, 0, 7)
	twoWeeksFromNow := now.AddDate(0, 0, 14)

	for _, t := range tasks {
		if t.Completed {
			continue
		}
		switch {
		case !t.DueDate.Before(now) && t.DueDate.Before(weekFromNow):
			thisWeek++
		case !t.DueDate.Before(weekFromNow) && t.DueDate.Before(twoWeeksFromNow):
			nextWeek++
		}
	}
	return thisWeek, nextWeek
}

// RoleBreakdown partitions users for the admin dashboard
type RoleBreakdown struct {
	Total   int
	Active  int
	Admins  int
	Regular int
}

// ByRole counts users per role and activity
func ByRole(users []models.User) RoleBreakdown {
	b := RoleBreakdown{Total: len(users)}
	for _, u := range users {
		if u.IsActive {
			b.Active++
		}
		if u.Role == models.RoleAdmin {
			b.Admins++
		} else {
			b.Regular++
		}
	}
	return b
}

// UserTaskLoad is the per-user task breakdown on the admin views
type UserTaskLoad struct {
	User      models.User
	Total     int
	Completed int
	Overdue   int
}

// PerUser cross-references the user list with the system-wide task
// set. Users appear in input order; tasks assigned to unknown users
// are ignored.
func PerUser(users []models.User, tasks []models.Task, now time.Time) []UserTaskLoad {
	index := make(map[int64]int, len(users))
	out := make([]UserTaskLoad, len(users))
	for i, u := range users {
		index[u.ID] = i
		out[i] = UserTaskLoad{User: u}
	}

	for _, t := range tasks {
		i, ok := index[t.AssignedTo]
		if !ok {
			continue
		}
		out[i].Total++
		if t.Completed {
			out[i].Completed++
		}
		if t.Overdue(now) {
			out[i].Overdue++
		}
	}
	return out
}
