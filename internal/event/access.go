// Package event implements the client-side state machines for event access,
// joining, and face-processing jobs. The backend is the authority on every
// permission; the checks here only decide what the client fetches and shows.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/snapcircle/snapcircle/internal/upload"
)

// AccessLevel classifies the current user's relationship to an event.
type AccessLevel int

const (
	Unregistered AccessLevel = iota
	RegisteredGuest
	Owner
)

func (l AccessLevel) String() string {
	switch l {
	case Owner:
		return "owner"
	case RegisteredGuest:
		return "guest"
	default:
		return "unregistered"
	}
}

// DeriveAccess computes the access level from an event summary and the current
// user (nil for anonymous callers).
//
// The guest check is a heuristic: the backend zeroes guest_count and
// photo_count for callers without access, so nonzero counts imply membership.
// An event with no guests and no photos is indistinguishable from no access
// until the backend exposes an explicit membership field.
func DeriveAccess(ev *snapcircle.Event, user *snapcircle.User) AccessLevel {
	if user != nil && ev.OwnerID == user.ID {
		return Owner
	}
	if ev.GuestCount > 0 || ev.PhotoCount > 0 {
		return RegisteredGuest
	}
	return Unregistered
}

// View is the data a screen renders for one event, scoped to the caller's
// access level.
type View struct {
	Event    *snapcircle.Event
	Access   AccessLevel
	Photos   []snapcircle.Photo
	MyPhotos []snapcircle.PhotoWithFaces // photos where the user was face-matched
	Guests   []snapcircle.User           // owner only
	QR       *snapcircle.QRCode          // owner only
}

// AccessAPI is the backend surface the controller needs.
type AccessAPI interface {
	GetEvent(ctx context.Context, code string) (*snapcircle.Event, error)
	GetEventPublic(ctx context.Context, code string) (*snapcircle.Event, error)
	EventPhotos(ctx context.Context, code string) ([]snapcircle.Photo, error)
	EventPhotosWithFaces(ctx context.Context, code string) ([]snapcircle.PhotoWithFaces, error)
	EventGuests(ctx context.Context, code string) ([]snapcircle.User, error)
	EventQRCode(ctx context.Context, code string) (*snapcircle.QRCode, error)
	UploadEventPhotos(ctx context.Context, code string, filePaths []string) ([]snapcircle.Photo, error)
	DeletePhoto(ctx context.Context, photoID int) error
	DeleteEvent(ctx context.Context, code string) error
	LeaveEvent(ctx context.Context, code string) error
}

// Guard errors for mutations the current user may not perform. These mirror
// backend rules for a better UX; the backend re-checks everything.
var (
	ErrNotLoaded    = errors.New("event not loaded")
	ErrNotPermitted = errors.New("not permitted")
)

// Controller derives the access level for one event and keeps the fetched
// datasets consistent with it. Mutations refresh the whole derivation instead
// of patching counts locally, so the access rule can never drift from server
// state.
type Controller struct {
	api    AccessAPI
	code   string
	user   *snapcircle.User
	limits upload.Limits

	mu   sync.Mutex
	view View
}

// NewController creates a controller for the given event code. user is nil
// for anonymous visitors. limits bound photo upload batches.
func NewController(api AccessAPI, code string, user *snapcircle.User, limits upload.Limits) *Controller {
	return &Controller{
		api:    api,
		code:   snapcircle.CanonicalCode(code),
		user:   user,
		limits: limits,
	}
}

// View returns a copy of the last loaded view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Load fetches the event summary, derives the access level, and issues the
// dependent fetches that level allows. The summary fetch always completes
// first; the dependent fetches run concurrently with each other.
func (c *Controller) Load(ctx context.Context) (View, error) {
	var ev *snapcircle.Event
	var err error
	if c.user != nil {
		ev, err = c.api.GetEvent(ctx, c.code)
	} else {
		ev, err = c.api.GetEventPublic(ctx, c.code)
	}
	if err != nil {
		if snapcircle.IsUnauthorized(err) {
			c.clear()
		}
		return View{}, err
	}

	v := View{Event: ev, Access: DeriveAccess(ev, c.user)}

	var wg sync.WaitGroup
	var photosErr, facesErr, guestsErr, qrErr error
	var faces []snapcircle.PhotoWithFaces

	switch v.Access {
	case Owner:
		wg.Add(3)
		go func() {
			defer wg.Done()
			v.Photos, photosErr = c.api.EventPhotos(ctx, c.code)
		}()
		go func() {
			defer wg.Done()
			v.Guests, guestsErr = c.api.EventGuests(ctx, c.code)
		}()
		go func() {
			defer wg.Done()
			v.QR, qrErr = c.api.EventQRCode(ctx, c.code)
		}()
	case RegisteredGuest:
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Photos, photosErr = c.api.EventPhotos(ctx, c.code)
		}()
		if c.user.HasSelfie() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				faces, facesErr = c.api.EventPhotosWithFaces(ctx, c.code)
			}()
		}
	}
	wg.Wait()

	// A rejected token invalidates the whole load: results fetched under the
	// stale assumption of authenticated access are discarded, not applied.
	for _, depErr := range []error{photosErr, facesErr, guestsErr, qrErr} {
		if snapcircle.IsUnauthorized(depErr) {
			c.clear()
			return View{}, depErr
		}
	}

	// Other dependent-fetch failures degrade to empty datasets; the summary
	// and access level are still valid.
	if facesErr == nil && c.user != nil {
		for _, photo := range faces {
			if photo.MatchesUser(c.user.ID) {
				v.MyPhotos = append(v.MyPhotos, photo)
			}
		}
	}

	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
	return v, nil
}

// Refresh re-runs the full derivation. It must be called after any mutation
// that changes guest or photo counts so the derived access level tracks
// server state.
func (c *Controller) Refresh(ctx context.Context) (View, error) {
	return c.Load(ctx)
}

func (c *Controller) clear() {
	c.mu.Lock()
	c.view = View{}
	c.mu.Unlock()
}

// UploadPhotos validates the batch, uploads it, and refreshes. Validation is
// atomic: one bad file rejects the whole batch before any network traffic.
func (c *Controller) UploadPhotos(ctx context.Context, filePaths []string) ([]snapcircle.Photo, error) {
	if err := upload.ValidateBatch(filePaths, c.limits); err != nil {
		return nil, err
	}

	photos, err := c.api.UploadEventPhotos(ctx, c.code, filePaths)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.view.Photos = append(c.view.Photos, photos...)
	c.mu.Unlock()

	if _, err := c.Refresh(ctx); err != nil {
		return photos, err
	}
	return photos, nil
}

// DeletePhoto deletes a photo if the current user uploaded it or owns the
// event, then refreshes.
func (c *Controller) DeletePhoto(ctx context.Context, photoID int) error {
	c.mu.Lock()
	ev := c.view.Event
	var target *snapcircle.Photo
	for i := range c.view.Photos {
		if c.view.Photos[i].ID == photoID {
			target = &c.view.Photos[i]
			break
		}
	}
	c.mu.Unlock()

	if ev == nil {
		return ErrNotLoaded
	}
	if target != nil && c.user != nil {
		if target.UploadedBy != c.user.ID && ev.OwnerID != c.user.ID {
			return ErrNotPermitted
		}
	}

	if err := c.api.DeletePhoto(ctx, photoID); err != nil {
		return err
	}

	c.mu.Lock()
	photos := c.view.Photos[:0]
	for _, photo := range c.view.Photos {
		if photo.ID != photoID {
			photos = append(photos, photo)
		}
	}
	c.view.Photos = photos
	c.mu.Unlock()

	_, err := c.Refresh(ctx)
	return err
}

// DeleteEvent deletes the event. Owner only; the backend cascades to photos
// and registrations and the deletion is irreversible.
func (c *Controller) DeleteEvent(ctx context.Context) error {
	c.mu.Lock()
	access := c.view.Access
	loaded := c.view.Event != nil
	c.mu.Unlock()

	if !loaded {
		return ErrNotLoaded
	}
	if access != Owner {
		return ErrNotPermitted
	}
	if err := c.api.DeleteEvent(ctx, c.code); err != nil {
		return err
	}
	c.clear()
	return nil
}

// Leave removes the current user's registration. Guests only; the owner
// cannot leave their own event.
func (c *Controller) Leave(ctx context.Context) error {
	c.mu.Lock()
	access := c.view.Access
	loaded := c.view.Event != nil
	c.mu.Unlock()

	if !loaded {
		return ErrNotLoaded
	}
	if access != RegisteredGuest {
		return ErrNotPermitted
	}
	if err := c.api.LeaveEvent(ctx, c.code); err != nil {
		return err
	}
	c.clear()
	return nil
}
