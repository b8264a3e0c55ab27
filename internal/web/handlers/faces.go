package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snapcircle/snapcircle/internal/event"
)

// FacesHandler exposes face-processing jobs over the viewer API.
type FacesHandler struct {
	tracker *event.Tracker
}

// NewFacesHandler creates a new faces handler around a shared job tracker.
func NewFacesHandler(tracker *event.Tracker) *FacesHandler {
	return &FacesHandler{tracker: tracker}
}

type processRequest struct {
	PhotoIDs []int `json:"photo_ids"`
}

// jobStatusResponse is the polled job state. Generation increases on every
// completed job; clients compare it against the one they rendered photos with
// to decide when a refetch is needed.
type jobStatusResponse struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Generation uint64 `json:"generation"`
	Result     any    `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Start begins a face-processing job for the selected photos.
func (h *FacesHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	// The job outlives the request, so it must not inherit its context.
	id, err := h.tracker.Start(context.Background(), req.PhotoIDs)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrNothingToProcess):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, event.ErrJobRunning):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"job_id": id})
}

// Status serves the current or most recent job state.
func (h *FacesHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.tracker.Status()
	resp := jobStatusResponse{
		ID:         status.ID,
		State:      status.State.String(),
		Current:    status.Current,
		Total:      status.Total,
		Generation: h.tracker.Generation(),
		Error:      status.Error,
	}
	if status.Result != nil {
		resp.Result = status.Result
	}
	respondJSON(w, http.StatusOK, resp)
}
