// Package handler provides HTTP handlers for all API endpoints. Handlers
// drive the dashboard store; ranking transformation lives in the ranking
// package.
package handler

import (
	"net/http"
	"time"

	"github.com/ducslabs/leetboard/internal/api/respond"
	"github.com/ducslabs/leetboard/internal/cache"
	"github.com/ducslabs/leetboard/internal/config"
	"github.com/ducslabs/leetboard/internal/dashboard"
	"github.com/ducslabs/leetboard/internal/tracker"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  *dashboard.Store
	client *tracker.Client
	cache  *cache.Cache
	cfg    *config.Config
}

// New creates a Handler with shared dependencies.
func New(store *dashboard.Store, client *tracker.Client, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		store:  store,
		client: client,
		cache:  c,
		cfg:    cfg,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the enabled ranking views.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	views := make([]string, len(h.cfg.EnabledViews))
	for i, v := range h.cfg.EnabledViews {
		views[i] = string(v)
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "LeetBoard API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"views":   views,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"inFlight":  h.store.InFlight(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckUpstream verifies tracker service reachability.
// @Summary Upstream health check
// @Description Verifies the tracker service responds over HTTP.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/upstream [get]
func (h *Handler) HealthCheckUpstream(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"tracker":   "unreachable",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"tracker":   "reachable",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
