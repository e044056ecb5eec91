// Package client talks to the talentboard REST API with an explicit session.
package client

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
	"sync"
	"time"
)

// ErrSessionExpired is returned when the access token was rejected and the
// refresh token could not renew it. The caller has to log in again.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Session is the token pair a client authenticates with.
type Session struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Client is safe for concurrent use. A rejected access token is refreshed
// once and the request retried.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	session Session
}

// New returns a client for the API at baseURL. A nil httpClient gets a 30s
// timeout default.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}
}

func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Login exchanges credentials for a new session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var s Session
	body := map[string]string{"username": username, "password": password}
	if err := c.send(ctx, http.MethodPost, "/api/token/", "", body, &s); err != nil {
		return err
	}
	c.SetSession(s)
	return nil
}

// Me is the account behind the current session.
type Me struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Me fetches the profile of the logged-in user.
func (c *Client) Me(ctx context.Context) (Me, error) {
	var out Me
	err := c.do(ctx, http.MethodGet, "/api/users/me/", nil, &out)
	return out, err
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": refreshToken}, &out); err != nil {
		return "", err
	}
	return out.Access, nil
}

// do sends an authenticated request, refreshing the access token once on a
// 401.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	s := c.Session()
	err := c.send(ctx, method, path, s.Access, body, out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}
	if s.Refresh == "" {
		return ErrSessionExpired
	}
	access, err := c.refresh(ctx, s.Refresh)
	if err != nil {
		if errors.As(err, &apiErr) {
			c.SetSession(Session{})
			return ErrSessionExpired
		}
		return err
	}
	c.SetSession(Session{Access: access, Refresh: s.Refresh})

	err = c.send(ctx, method, path, access, body, out)
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil {
			apiErr.Message = envelope.Error
			if envelope.Description != "" {
				apiErr.Message += ": " + envelope.Description
			}
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func escape(id string) string { return url.PathEscape(id) }
