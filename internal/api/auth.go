package api

import (
	"context"
	"net/http"
	"net/url"

	"taskdeck/internal/models"
)

// LoginResponse is the payload returned by the login endpoint
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Login authenticates with email and password. Credentials are
// form-encoded per the OAuth2 password flow the backend speaks.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	form.Set("grant_type", "password")

	var out LoginResponse
	if err := c.postForm(ctx, "/auth/login", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account and returns the created user summary
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the current user's profile
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
