package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"taskdeck/internal/models"
)

// TaskPage is the paginated envelope returned by the task list
// endpoint.
type TaskPage struct {
	Items   []models.Task `json:"items"`
	Total   int           `json:"total"`
	Skip    int           `json:"skip"`
	Limit   int           `json:"limit"`
	HasMore bool          `json:"has_more"`
}

// CreateTaskRequest is the payload for creating a task. The server
// assigns the task to the current user.
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"due_date"`
	Priority    models.Priority `json:"priority"`
}

// TaskUpdate is a partial task update; nil fields are left unchanged
type TaskUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
}

// ListTasks fetches a page of tasks. Filters are applied server-side;
// regular users only ever receive their own tasks regardless of the
// assigned_to filter.
func (c *Client) ListTasks(ctx context.Context, filters models.TaskFilters, skip, limit int) (*TaskPage, error) {
	query := url.Values{}
	if filters.Completed != nil {
		query.Set("completed", strconv.FormatBool(*filters.Completed))
	}
	if filters.Priority != "" {
		query.Set("priority", string(filters.Priority))
	}
	if filters.AssignedTo != 0 {
		query.Set("assigned_to", strconv.FormatInt(filters.AssignedTo, 10))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var out TaskPage
	if err := c.do(ctx, http.MethodGet, "/tasks/", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTask fetches a single task by id
func (c *Client) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask creates a task and returns the server's copy
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask applies a partial update and returns the updated task
func (c *Client) UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask deletes a task by id
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil, nil)
}

// TaskStatistics fetches the server-side aggregate counts. These are
// computed over the caller's full task set, not the cached page, so
// they can differ from client-side recomputation.
func (c *Client) TaskStatistics(ctx context.Context) (*models.TaskStats, error) {
	var out models.TaskStats
	if err := c.do(ctx, http.MethodGet, "/tasks/statistics", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
