// Package tracker provides the HTTP client for the remote LeetCode tracker
// service: ranking fetches plus the add-user and refresh actions.
//
// Requests are rate limited via a token bucket limiter. The client performs
// no normalization beyond decoding the wire shape; the ranking package owns
// the payload-to-entry mapping.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ducslabs/leetboard/internal/ranking"
)

// Client is the HTTP client for the tracker service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a tracker client with rate limiting.
func NewClient(baseURL string, timeout time.Duration, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), requestsPerMinute),
		logger:     logger,
	}
}

// APIError is a transport or HTTP failure from the tracker. Status is 0 when
// no response was received. FromServer reports whether Message came from the
// tracker's JSON error field rather than a generated fallback.
type APIError struct {
	Status     int
	Message    string
	FromServer bool

	cause error
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the transport cause, if any.
func (e *APIError) Unwrap() error { return e.cause }

// FetchView fetches the raw ranking payload for a view and decodes it into
// the shape the normalizer expects.
func (c *Client) FetchView(ctx context.Context, view ranking.View) (ranking.Payload, error) {
	var path string
	params := url.Values{}
	switch {
	case view.IsContest():
		path = "/contest-rankings"
	case view == ranking.ViewTotal:
		path = "/total-leaderboard"
	default:
		path = "/ranking"
		params.Set("type", string(view))
	}

	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return ranking.ParsePayload(view, body)
}

// do performs a rate-limited request and maps failures to *APIError.
// Non-success responses take their message from the tracker's {error} field
// when present, else a generic status-coded message.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("rate limit wait: %v", err), cause: err}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read response body: %v", err), cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
		}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.FromServer = true
		}
		c.logger.Warn("tracker request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, apiErr
	}

	return body, nil
}

// Ping checks tracker reachability. Any HTTP response counts as reachable;
// only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error(), cause: err}
	}
	resp.Body.Close()
	return nil
}
