package models

import "time"

// Role is a user's authorization role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// Priority represents the priority of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// User represents an account as reported by the API
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Task represents a single task
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     time.Time `json:"due_date"`
	Priority    Priority  `json:"priority"`
	CreatedBy   int64     `json:"created_by"`
	AssignedTo  int64     `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Overdue reports whether the task is past due and not completed
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}

// CommentAuthor is the author summary embedded in a comment
type CommentAuthor struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Comment represents a comment on a task
type Comment struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	TaskID    int64          `json:"task_id"`
	UserID    int64          `json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	User      *CommentAuthor `json:"user,omitempty"`
}

// TaskFilters holds the optional task list predicates. A zero field
// means "match all" for that dimension.
type TaskFilters struct {
	Completed  *bool
	Priority   Priority
	AssignedTo int64
	Search     string
}

// TaskStats holds aggregate task counts
type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}
