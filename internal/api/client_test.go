package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second), srv
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "a@b.com", r.PostForm.Get("username"))
		require.Equal(t, "secret", r.PostForm.Get("password"))
		require.Equal(t, "password", r.PostForm.Get("grant_type"))

		json.NewEncoder(w).Encode(LoginResponse{
			AccessToken: "tok-1",
			TokenType:   "bearer",
			User:        models.User{ID: 1, Email: "a@b.com", Role: models.RoleRegular, IsActive: true},
		})
	}))

	resp, err := client.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", resp.AccessToken)
	require.Equal(t, int64(1), resp.User.ID)
}

func TestListTasksQueryAndBearer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tasks/", r.URL.Path)
		require.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))

		q := r.URL.Query()
		require.Equal(t, "false", q.Get("completed"))
		require.Equal(t, "high", q.Get("priority"))
		require.Equal(t, "kickoff", q.Get("search"))
		require.Equal(t, "0", q.Get("skip"))
		require.Equal(t, "10", q.Get("limit"))

		json.NewEncoder(w).Encode(TaskPage{
			Items:   []models.Task{{ID: 1, Title: "Kickoff notes"}},
			Total:   11,
			Skip:    0,
			Limit:   10,
			HasMore: true,
		})
	}))
	client.SetTokenSource(func() string { return "tok-9" })

	completed := false
	page, err := client.ListTasks(context.Background(), models.TaskFilters{
		Completed: &completed,
		Priority:  models.PriorityHigh,
		Search:    "kickoff",
	}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 11, page.Total)
	require.True(t, page.HasMore)
}

func TestUpdateTaskSendsOnlyPatchedFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tasks/7", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]any{"completed": true}, body)

		json.NewEncoder(w).Encode(models.Task{ID: 7, Completed: true})
	}))

	completed := true
	task, err := client.UpdateTask(context.Background(), 7, TaskUpdate{Completed: &completed})
	require.NoError(t, err)
	require.True(t, task.Completed)
}

func TestListCommentsNormalizesUnionShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":1,"content":"hi","task_id":3,"user_id":2}]`},
		{"items envelope", `{"items":[{"id":1,"content":"hi","task_id":3,"user_id":2}]}`},
		{"comments envelope", `{"comments":[{"id":1,"content":"hi","task_id":3,"user_id":2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/tasks/3/comments", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))

			comments, err := client.ListComments(context.Background(), 3)
			require.NoError(t, err)
			require.Len(t, comments, 1)
			require.Equal(t, "hi", comments[0].Content)
			require.Equal(t, int64(3), comments[0].TaskID)
		})
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"task not found"}`, "task not found"},
		{"message", `{"message":"nope"}`, "nope"},
		{"error", `{"error":"bad input"}`, "bad input"},
		{"garbage", `<html>`, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body))
			}))

			_, err := client.GetTask(context.Background(), 1)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusNotFound, apiErr.Status)
			require.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestUnauthorizedSurfacesSentinel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
	}))

	_, err := client.ListTasks(context.Background(), models.TaskFilters{}, 0, 10)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteTaskNoContent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/tasks/4", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteTask(context.Background(), 4))
}

func TestAddComment(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tasks/3/comments", r.URL.Path)

		var body struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "looks good", body.Content)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Comment{ID: 8, TaskID: 3, UserID: 2, Content: body.Content})
	}))

	comment, err := client.AddComment(context.Background(), 3, "looks good")
	require.NoError(t, err)
	require.Equal(t, int64(8), comment.ID)
}
