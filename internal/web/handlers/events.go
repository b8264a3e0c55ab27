package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapcircle/snapcircle/internal/event"
	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/snapcircle/snapcircle/internal/upload"
)

// EventsHandler serves event views through the backend client.
type EventsHandler struct {
	client *snapcircle.Client
	limits upload.Limits
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(client *snapcircle.Client, limits upload.Limits) *EventsHandler {
	return &EventsHandler{client: client, limits: limits}
}

// apiStatus maps a backend error to an HTTP status for the viewer response.
func apiStatus(err error) int {
	var apiErr *snapcircle.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

// photoResponse is a photo with its image path resolved to a fetchable URL.
type photoResponse struct {
	snapcircle.Photo
	URL string `json:"url"`
}

// viewResponse is the event view scoped to the caller's access level.
type viewResponse struct {
	Event    *snapcircle.Event  `json:"event"`
	Access   string             `json:"access"`
	Photos   []photoResponse    `json:"photos"`
	MyPhotos []photoResponse    `json:"my_photos,omitempty"`
	Guests   []snapcircle.User  `json:"guests,omitempty"`
	QR       *snapcircle.QRCode `json:"qr,omitempty"`
}

// currentUser resolves the authenticated user, or nil for anonymous viewers.
// A dead token degrades to anonymous instead of failing the page.
func (h *EventsHandler) currentUser(r *http.Request) *snapcircle.User {
	if !h.client.Authenticated() {
		return nil
	}
	user, err := h.client.Me(r.Context())
	if err != nil {
		return nil
	}
	return user
}

func (h *EventsHandler) resolvePhotos(photos []snapcircle.Photo) []photoResponse {
	resolved := make([]photoResponse, len(photos))
	for i, photo := range photos {
		resolved[i] = photoResponse{Photo: photo, URL: h.client.PhotoURL(photo.ImagePath)}
	}
	return resolved
}

// Get serves the full event view for the given code.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	user := h.currentUser(r)

	c := event.NewController(h.client, code, user, h.limits)
	v, err := c.Load(r.Context())
	if err != nil {
		respondError(w, apiStatus(err), snapcircle.ErrorDetail(err))
		return
	}

	resp := viewResponse{
		Event:  v.Event,
		Access: v.Access.String(),
		Photos: h.resolvePhotos(v.Photos),
		Guests: v.Guests,
		QR:     v.QR,
	}
	for _, photo := range v.MyPhotos {
		resp.MyPhotos = append(resp.MyPhotos, photoResponse{Photo: photo.Photo, URL: h.client.PhotoURL(photo.ImagePath)})
	}
	respondJSON(w, http.StatusOK, resp)
}

// Photos serves the event's photo list with resolved URLs.
func (h *EventsHandler) Photos(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	photos, err := h.client.EventPhotos(r.Context(), code)
	if err != nil {
		respondError(w, apiStatus(err), snapcircle.ErrorDetail(err))
		return
	}
	respondJSON(w, http.StatusOK, h.resolvePhotos(photos))
}

// joinResponse is the outcome of a join attempt.
type joinResponse struct {
	State   string            `json:"state"`
	Message string            `json:"message"`
	Event   *snapcircle.Event `json:"event,omitempty"`
}

// Join looks up the event and joins it as the authenticated user.
func (h *EventsHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	o := event.NewOrchestrator(h.client, code)
	if _, err := o.Lookup(r.Context()); err != nil {
		respondError(w, apiStatus(err), snapcircle.ErrorDetail(err))
		return
	}
	if o.State() == event.JoinAwaitingAuth {
		respondError(w, http.StatusUnauthorized, "login required to join")
		return
	}
	respondJSON(w, http.StatusOK, joinResponse{
		State:   o.State().String(),
		Message: o.Message(),
		Event:   o.Event(),
	})
}
