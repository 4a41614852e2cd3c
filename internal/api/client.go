package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the API rejects or misses the
// bearer token. The app layer reacts by logging out and returning to
// the login view.
var ErrUnauthorized = errors.New("authentication required")

// Error is a non-2xx API response with the server's message extracted
// from the body when one was available.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client is the sole boundary to the backend. It translates store
// actions into HTTP calls and normalizes responses into the canonical
// in-memory shapes before they reach any store.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// New creates a client for the API at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetTokenSource wires the session's token into outgoing requests
func (c *Client) SetTokenSource(src TokenSource) {
	c.token = src
}

// do performs a JSON request and decodes the response into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postForm performs a form-encoded request, used only by the auth
// endpoints.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token == nil {
		return
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := extractMessage(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// extractMessage pulls a human-readable message out of an error body.
// The backend reports errors as {"detail": ...}; other deployments use
// "message" or "error". Anything unreadable falls back to a generic
// string.
func extractMessage(body io.Reader) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if len(payload.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
				return detail
			}
			// Validation errors arrive as a list of objects; surface
			// them as-is rather than dropping the information.
			return string(payload.Detail)
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "request failed"
}
