package snapcircle

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
)

// CreateEvent creates a new event owned by the current user.
func (c *Client) CreateEvent(ctx context.Context, create EventCreate) (*Event, error) {
	return doPostJSON[Event](ctx, c, "events/", create)
}

// OwnedEvents lists events owned by the current user.
func (c *Client) OwnedEvents(ctx context.Context) ([]Event, error) {
	events, err := doGetJSON[[]Event](ctx, c, "events/owned")
	if err != nil {
		return nil, err
	}
	return *events, nil
}

// RegisteredEvents lists events the current user joined as a guest.
func (c *Client) RegisteredEvents(ctx context.Context) ([]Event, error) {
	events, err := doGetJSON[[]Event](ctx, c, "events/registered")
	if err != nil {
		return nil, err
	}
	return *events, nil
}

// GetEvent looks up an event by code as an authenticated caller. Guest and
// photo counts are zeroed by the backend unless the caller is the owner or a
// registered guest.
func (c *Client) GetEvent(ctx context.Context, code string) (*Event, error) {
	return doGetJSON[Event](ctx, c, "events/"+CanonicalCode(code))
}

// GetEventPublic looks up an event by code without authentication. Counts are
// always zeroed.
func (c *Client) GetEventPublic(ctx context.Context, code string) (*Event, error) {
	return doGetJSON[Event](ctx, c, "events/public/"+CanonicalCode(code))
}

// JoinEvent registers the current user as a guest of the event.
func (c *Client) JoinEvent(ctx context.Context, code string) (*Registration, error) {
	return doPostJSON[Registration](ctx, c, "events/"+CanonicalCode(code)+"/join", nil)
}

// LeaveEvent removes the current user's guest registration.
func (c *Client) LeaveEvent(ctx context.Context, code string) error {
	_, err := doDeleteJSON[Message](ctx, c, "events/"+CanonicalCode(code)+"/leave")
	return err
}

// DeleteEvent deletes an event. Owner only; the backend cascades to photos
// and registrations.
func (c *Client) DeleteEvent(ctx context.Context, code string) error {
	_, err := doDeleteJSON[Message](ctx, c, "events/"+CanonicalCode(code))
	return err
}

// EventGuests lists the guests registered for an event. Owner only.
func (c *Client) EventGuests(ctx context.Context, code string) ([]User, error) {
	guests, err := doGetJSON[[]User](ctx, c, "events/"+CanonicalCode(code)+"/guests")
	if err != nil {
		return nil, err
	}
	return *guests, nil
}

// EventQRCode fetches the invite QR payload for an event. Owner only.
func (c *Client) EventQRCode(ctx context.Context, code string) (*QRCode, error) {
	return doGetJSON[QRCode](ctx, c, "events/"+CanonicalCode(code)+"/qr-code")
}

// RegisterWithSelfie creates a new account with a selfie attached and joins
// the event in one call. The selfie is required by the backend to derive the
// face-matching embedding; without it registration is rejected.
func (c *Client) RegisterWithSelfie(ctx context.Context, code, name, email, password, selfiePath string) (*Registration, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{"name": name, "email": email, "password": password}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("could not write form field %s: %w", field, err)
		}
	}
	if err := addFileToMultipart(writer, "selfie", selfiePath); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	endpoint := "events/code/" + CanonicalCode(code) + "/register-with-selfie"
	return doMultipart[Registration](ctx, c, http.MethodPost, endpoint, writer.FormDataContentType(), &body,
		http.StatusOK, http.StatusCreated)
}
