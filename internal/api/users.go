package api

import (
	"context"
	"fmt"
	"net/http"

	"taskdeck/internal/models"
)

// UserUpdate is a partial user update; nil fields are left unchanged
type UserUpdate struct {
	Email    *string      `json:"email,omitempty"`
	FullName *string      `json:"full_name,omitempty"`
	Password *string      `json:"password,omitempty"`
	Role     *models.Role `json:"role,omitempty"`
	IsActive *bool        `json:"is_active,omitempty"`
}

// ListUsers fetches all users (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "/users/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches a single user by id (admin only)
func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser applies a partial update to a user (admin only)
func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser deletes a user by id (admin only)
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}
