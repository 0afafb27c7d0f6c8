package tracker

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrEmptyUsername rejects an add-user call before any network traffic.
var ErrEmptyUsername = errors.New("username must not be empty")

// addUserFallback is surfaced when the tracker rejects an add-user call
// without providing its own error message.
const addUserFallback = "failed to add user - check that the tracker backend is running and the username is valid"

// AddUser registers a new tracked user. name is the optional display name.
// An empty or whitespace-only username is rejected client-side.
func (c *Client) AddUser(ctx context.Context, username, name string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}

	body := struct {
		Username string `json:"username"`
		Name     string `json:"name,omitempty"`
	}{Username: username, Name: name}

	_, err := c.do(ctx, http.MethodPost, "/users", nil, body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.FromServer {
			apiErr.Message = addUserFallback
		}
		return err
	}
	c.logger.Info("user added", "username", username)
	return nil
}

// TrackDaily triggers the tracker's daily progress job.
func (c *Client) TrackDaily(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/track", nil, nil)
	return err
}

// RefreshTotal triggers a recompute of the aggregate problem-solving stats.
func (c *Client) RefreshTotal(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/refresh-total", nil, nil)
	return err
}

// RefreshContests triggers a recompute of the contest rankings.
func (c *Client) RefreshContests(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/refresh-contests", nil, nil)
	return err
}
