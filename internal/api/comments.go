package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"taskdeck/internal/models"
)

// ListComments fetches all comments for a task. The endpoint has
// returned both a bare array and an envelope over its lifetime, so the
// response is normalized to a plain slice here. Stores only ever see
// the canonical shape.
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/comments", taskID), nil, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeComments(raw)
}

func normalizeComments(raw json.RawMessage) ([]models.Comment, error) {
	var list []models.Comment
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope struct {
		Items    []models.Comment `json:"items"`
		Comments []models.Comment `json:"comments"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected comment response shape: %w", err)
	}
	if envelope.Items != nil {
		return envelope.Items, nil
	}
	return envelope.Comments, nil
}

// AddComment posts a comment to a task and returns the server's copy
func (c *Client) AddComment(ctx context.Context, taskID int64, content string) (*models.Comment, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	var out models.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/comments", taskID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment deletes a comment by id. The server enforces that only
// the author or an admin may delete.
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", commentID), nil, nil, nil)
}
