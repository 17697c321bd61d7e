// Package client is a Go client for the listing API. It mirrors the state the
// web frontend keeps per browser tab: the authenticated session, the user's
// wishlist, and a local comparison selection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"github.com/urbannest/real_estate_platform/backend/models"
)

// APIError is a non-2xx envelope surfaced to the caller.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []string        `json:"errors"`
}

type Client struct {
	baseURL string
	httpc   *http.Client

	mu   sync.Mutex
	user *models.User
}

// New builds a client for the given base URL (including the /api/v1 prefix).
// A cookie jar carries the token cookies the way a browser session would.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Jar: jar},
	}, nil
}

// CurrentUser returns the session user, or nil when not logged in.
func (c *Client) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Probe asks the server who we are, as the frontend does at startup. Not
// being logged in is not an error; the session user just stays nil.
func (c *Client) Probe(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/users/current-user", nil, &user)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusUnauthorized {
			c.setUser(nil)
			return nil, nil
		}
		return nil, err
	}
	c.setUser(&user)
	return &user, nil
}

type loginResult struct {
	User *models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var res loginResult
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &res); err != nil {
		return nil, err
	}
	c.setUser(res.User)
	return res.User, nil
}

type SignupInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup registers and then logs in, matching the frontend's auto-login after
// account creation.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := c.do(ctx, http.MethodPost, "/users/register", in, nil); err != nil {
		return nil, err
	}
	return c.Login(ctx, in.Email, in.Password)
}

// Logout clears the local session even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/users/logout", nil, nil)
	c.setUser(nil)
	return err
}

func (c *Client) Properties(ctx context.Context) ([]models.PropertyWithAgent, error) {
	var properties []models.PropertyWithAgent
	if err := c.do(ctx, http.MethodGet, "/properties", nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) Property(ctx context.Context, id string) (*models.PropertyWithAgent, error) {
	var property models.PropertyWithAgent
	if err := c.do(ctx, http.MethodGet, "/properties/"+id, nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) Interiors(ctx context.Context) ([]models.InteriorWithAgent, error) {
	var interiors []models.InteriorWithAgent
	if err := c.do(ctx, http.MethodGet, "/interiors", nil, &interiors); err != nil {
		return nil, err
	}
	return interiors, nil
}

func (c *Client) setUser(user *models.User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response from %s %s: %v", method, path, err)
	}
	if !env.Success {
		return &APIError{StatusCode: env.StatusCode, Message: env.Message, Errors: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding data from %s %s: %v", method, path, err)
		}
	}
	return nil
}
