package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ducslabs/leetboard/internal/api/respond"
	"github.com/ducslabs/leetboard/internal/cache"
	"github.com/ducslabs/leetboard/internal/ranking"
	"github.com/ducslabs/leetboard/internal/tracker"
)

// rankingsResponse is the projected view served to the frontend.
type rankingsResponse struct {
	View        ranking.View          `json:"view"`
	Label       string                `json:"label"`
	Search      string                `json:"search,omitempty"`
	Rows        []ranking.RankedEntry `json:"rows"`
	Summary     ranking.Summary       `json:"summary"`
	SourceCount int                   `json:"sourceCount"`
	ValidCount  int                   `json:"validCount"`
	Condition   string                `json:"condition"`
	Message     string                `json:"message,omitempty"`
	LastFetched time.Time             `json:"lastFetched"`
}

// GetViews lists the enabled ranking views.
// @Summary List ranking views
// @Description Returns the ranking views this deployment serves, in display order.
// @Tags rankings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /views [get]
func (h *Handler) GetViews(w http.ResponseWriter, r *http.Request) {
	type viewInfo struct {
		ID      string `json:"id"`
		Label   string `json:"label"`
		Contest bool   `json:"contest"`
	}
	views := make([]viewInfo, 0, len(h.cfg.EnabledViews))
	for _, v := range h.cfg.EnabledViews {
		views = append(views, viewInfo{ID: string(v), Label: v.Label(), Contest: v.IsContest()})
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"views": views})
}

// GetRankings returns the filtered, sorted, ranked entries for a view.
// @Summary Get ranked entries for a view
// @Description Fetches the view's data from the tracker (or the short-lived cache), normalizes it, applies the search filter, sorts by the view metric, and assigns dense ranks.
// @Tags rankings
// @Produce json
// @Param view path string true "Ranking view" Enums(today, this_week, this_month, total, contest)
// @Param search query string false "Case-insensitive username substring filter"
// @Success 200 {object} handler.rankingsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /rankings/{view} [get]
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	view, err := ranking.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_VIEW", err.Error())
		return
	}
	if !h.cfg.ViewEnabled(view) {
		respond.WriteError(w, http.StatusBadRequest, "VIEW_DISABLED", fmt.Sprintf("view %q is not enabled", view))
		return
	}
	search := r.URL.Query().Get("search")

	cacheKey := fmt.Sprintf("rankings:%s:q=%s", view, search)
	ttl := h.cfg.RankingTTL

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	snap, err := h.store.Rankings(r.Context(), view, search)
	if err != nil {
		writeTrackerError(w, err)
		return
	}

	resp := rankingsResponse{
		View:        view,
		Label:       view.Label(),
		Search:      search,
		Rows:        snap.Rows,
		Summary:     snap.Summary,
		SourceCount: snap.Source,
		ValidCount:  snap.Valid,
		Condition:   snap.Condition.String(),
		Message:     snap.Err,
		LastFetched: snap.LastFetched,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "failed to encode response")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// writeTrackerError maps an upstream failure to a gateway error response.
func writeTrackerError(w http.ResponseWriter, err error) {
	var apiErr *tracker.APIError
	if errors.As(err, &apiErr) {
		respond.WriteError(w, http.StatusBadGateway, "TRACKER_ERROR", apiErr.Message)
		return
	}
	respond.WriteError(w, http.StatusBadGateway, "TRACKER_ERROR", err.Error())
}
