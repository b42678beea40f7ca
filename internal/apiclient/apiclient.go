// Package apiclient talks to the chat server's HTTP endpoints that back the
// session: the user directory fetched on connect and the sign-out
// confirmation.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	base  string
	token string
	http  *http.Client
}

// New builds a client for the server at baseURL. token is the session
// credential from sign-in, attached to every call.
func New(baseURL, token string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	return &Client{
		base:  baseURL,
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("token", c.token)
		req.AddCookie(&http.Cookie{Name: "token", Value: c.token})
	}
	return req, nil
}

// ListUsers fetches the full user directory. The server answers with a
// sequence of {"local": handle} records.
func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users")
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users request returned %s", resp.Status)
	}

	var records []struct {
		Local string `json:"local"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}

	handles := make([]string, 0, len(records))
	for _, r := range records {
		if r.Local != "" {
			handles = append(handles, r.Local)
		}
	}
	return handles, nil
}

// Logout confirms a sign-out with the backend. The local session has
// already been reset by the time this is called.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/logout")
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("logout request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("logout request returned %s", resp.Status)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode logout response: %w", err)
	}
	return body.Success, nil
}
