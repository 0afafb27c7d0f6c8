package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ducslabs/leetboard/internal/api/respond"
	"github.com/ducslabs/leetboard/internal/dashboard"
	"github.com/ducslabs/leetboard/internal/ranking"
	"github.com/ducslabs/leetboard/internal/tracker"
)

// addUserRequest is the add-user request body.
type addUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// AddUser registers a new tracked user and re-fetches the active view.
// @Summary Add a tracked user
// @Description Registers a LeetCode username with the tracker. The username must be non-empty; the display name is optional.
// @Tags actions
// @Accept json
// @Produce json
// @Param user body handler.addUserRequest true "User to add"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /users [post]
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON with a username field")
		return
	}

	err := h.store.AddUser(r.Context(), req.Username, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, tracker.ErrEmptyUsername):
			respond.WriteError(w, http.StatusBadRequest, "INVALID_USERNAME", err.Error())
		case errors.Is(err, dashboard.ErrActionInFlight):
			respond.WriteError(w, http.StatusConflict, "ACTION_IN_FLIGHT", err.Error())
		default:
			writeTrackerError(w, err)
		}
		return
	}

	h.cache.InvalidatePrefix("rankings:")
	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"status":   "ok",
		"username": req.Username,
		"view":     h.store.ActiveView(),
	})
}

// TrackDaily triggers the daily tracking job and switches to the today view.
// @Summary Track daily progress
// @Description Triggers the tracker's daily progress job, then switches the dashboard to the today view and re-fetches it.
// @Tags actions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /actions/track [post]
func (h *Handler) TrackDaily(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, h.store.TrackDaily, ranking.ViewToday)
}

// RefreshStats recomputes aggregate stats and re-fetches the active view.
// @Summary Refresh problem-solving stats
// @Description Triggers the tracker's aggregate recompute, then re-fetches whichever view is active without switching it.
// @Tags actions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /actions/refresh-total [post]
func (h *Handler) RefreshStats(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, h.store.RefreshStats, h.store.ActiveView())
}

// RefreshContests recomputes contest data and re-fetches the contest view.
// @Summary Refresh contest data
// @Description Triggers the tracker's contest recompute, then re-fetches the contest view.
// @Tags actions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /actions/refresh-contests [post]
func (h *Handler) RefreshContests(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, h.store.RefreshContests, ranking.ViewContest)
}

// runAction executes a store action with the shared failure mapping, then
// invalidates the rankings cache so the next read sees fresh data.
func (h *Handler) runAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context) error, view ranking.View) {
	if err := action(r.Context()); err != nil {
		if errors.Is(err, dashboard.ErrActionInFlight) {
			respond.WriteError(w, http.StatusConflict, "ACTION_IN_FLIGHT", err.Error())
			return
		}
		writeTrackerError(w, err)
		return
	}

	h.cache.InvalidatePrefix("rankings:")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"view":   view,
	})
}
