// Package client is the API client used by adminctl. It attaches the
// bearer token to every protected call and surfaces the server's
// machine-readable error codes so callers can distinguish "session is
// gone" from ordinary failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jkubik/user-admin-api/internal/auth"
	"github.com/jkubik/user-admin-api/internal/httputil"
	"github.com/jkubik/user-admin-api/internal/user"
)

// APIError is a failure response decoded from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// IsSessionInvalid reports whether the error means the stored session is
// no longer usable and the client should log out.
func IsSessionInvalid(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	switch apiErr.Code {
	case httputil.CodeUserBlocked, httputil.CodeTokenExpired, httputil.CodeInvalidToken, httputil.CodeMissingAuth:
		return true
	}
	return false
}

// Client talks to the user-admin API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type blockRequest struct {
	UserIDs   []uuid.UUID `json:"userIds"`
	IsBlocked bool        `json:"isBlocked"`
}

type deleteRequest struct {
	UserIDs []uuid.UUID `json:"userIds"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*auth.SanitizedUser, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var resp auth.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", body, &resp); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

// Login authenticates and returns the issued token with the identity.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp auth.LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Users fetches the admin table rows, excluding the caller.
func (c *Client) Users(ctx context.Context, callerID uuid.UUID) ([]user.Projection, error) {
	path := "/api/users?id=" + url.QueryEscape(callerID.String())

	var users []user.Projection
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// SetBlocked bulk-updates the blocked flag for the given ids.
func (c *Client) SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) error {
	return c.do(ctx, http.MethodPut, "/api/users/block", blockRequest{UserIDs: ids, IsBlocked: blocked}, nil)
}

// Delete bulk-deletes the given ids.
func (c *Client) Delete(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/users", deleteRequest{UserIDs: ids}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = new(bytes.Buffer)
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

		var errBody httputil.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
			apiErr.Code = errBody.Code
		}

		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}
