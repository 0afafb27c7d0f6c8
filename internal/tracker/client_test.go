package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducslabs/leetboard/internal/ranking"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return NewClient(srv.URL, 5*time.Second, 600, logger), srv
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestFetchViewEndpointSelection(t *testing.T) {
	tests := []struct {
		view      ranking.View
		wantPath  string
		wantQuery string
		body      string
	}{
		{ranking.ViewContest, "/contest-rankings", "", `[]`},
		{ranking.ViewTotal, "/total-leaderboard", "", `{"stats": []}`},
		{ranking.ViewToday, "/ranking", "type=today", `{"results": []}`},
		{ranking.ViewThisWeek, "/ranking", "type=this_week", `{"results": []}`},
		{ranking.ViewThisMonth, "/ranking", "type=this_month", `{"results": []}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			var gotPath, gotQuery string
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.RawQuery
				w.Write([]byte(tt.body))
			}))

			_, err := client.FetchView(context.Background(), tt.view)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestFetchViewDecodesPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"_id": "r1", "username": "alice", "totalCount": 4}]}`))
	}))

	payload, err := client.FetchView(context.Background(), ranking.ViewToday)
	require.NoError(t, err)

	results, ok := payload.(ranking.ResultsPayload)
	require.True(t, ok)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "alice", results.Results[0].Username)
}

func TestErrorMapping(t *testing.T) {
	t.Run("server error message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "tracker exploded"})
		}))

		_, err := client.FetchView(context.Background(), ranking.ViewToday)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "tracker exploded", apiErr.Message)
		assert.True(t, apiErr.FromServer)
	})

	t.Run("generic status message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.FetchView(context.Background(), ranking.ViewToday)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "HTTP error! status: 404", apiErr.Message)
		assert.False(t, apiErr.FromServer)
	})

	t.Run("transport failure", func(t *testing.T) {
		client, srv := newTestClient(t, http.NewServeMux())
		srv.Close() // no response at all

		_, err := client.FetchView(context.Background(), ranking.ViewToday)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Zero(t, apiErr.Status)
		assert.NotEmpty(t, apiErr.Message)
		assert.NotNil(t, errors.Unwrap(apiErr))
	})
}

func TestAddUser(t *testing.T) {
	t.Run("posts username and name", func(t *testing.T) {
		var got addUserBody
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/users", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"username": "alice"}`))
		}))

		require.NoError(t, client.AddUser(context.Background(), "alice", "Alice L"))
		assert.Equal(t, addUserBody{Username: "alice", Name: "Alice L"}, got)
	})

	t.Run("rejects empty username before any request", func(t *testing.T) {
		var requests atomic.Int64
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))

		for _, username := range []string{"", "   ", "\t\n"} {
			err := client.AddUser(context.Background(), username, "")
			assert.ErrorIs(t, err, ErrEmptyUsername)
		}
		assert.Zero(t, requests.Load())
	})

	t.Run("keeps server error message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "username not found on leetcode"})
		}))

		err := client.AddUser(context.Background(), "ghost", "")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "username not found on leetcode", apiErr.Message)
	})

	t.Run("falls back to generic message", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))

		err := client.AddUser(context.Background(), "ghost", "")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, addUserFallback, apiErr.Message)
	})
}

type addUserBody struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

func TestTriggerActions(t *testing.T) {
	tests := []struct {
		name       string
		call       func(*Client) error
		wantMethod string
		wantPath   string
	}{
		{"track daily", func(c *Client) error { return c.TrackDaily(context.Background()) }, http.MethodGet, "/track"},
		{"refresh total", func(c *Client) error { return c.RefreshTotal(context.Background()) }, http.MethodGet, "/refresh-total"},
		{"refresh contests", func(c *Client) error { return c.RefreshContests(context.Background()) }, http.MethodPost, "/refresh-contests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.Write([]byte(`{}`))
			}))

			require.NoError(t, tt.call(client))
			assert.Equal(t, tt.wantMethod, gotMethod)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // any HTTP response counts as reachable
	}))
	assert.NoError(t, client.Ping(context.Background()))

	down, srv := newTestClient(t, http.NewServeMux())
	srv.Close()
	assert.Error(t, down.Ping(context.Background()))
}
