package event

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/snapcircle/snapcircle/internal/upload"
)

// fakeAccessAPI counts calls and serves canned data per endpoint.
type fakeAccessAPI struct {
	event     *snapcircle.Event
	eventErr  error
	photos    []snapcircle.Photo
	photosErr error
	faces     []snapcircle.PhotoWithFaces
	guests    []snapcircle.User
	qr        *snapcircle.QRCode

	getEventCalls  int
	publicCalls    int
	photoCalls     int
	faceCalls      int
	guestCalls     int
	qrCalls        int
	uploadCalls    int
	deleteCalls    int
	deleteEvCalls  int
	leaveCalls     int
	uploadedBatch  []string
	deletedPhotoID int
}

func (f *fakeAccessAPI) GetEvent(ctx context.Context, code string) (*snapcircle.Event, error) {
	f.getEventCalls++
	return f.event, f.eventErr
}

func (f *fakeAccessAPI) GetEventPublic(ctx context.Context, code string) (*snapcircle.Event, error) {
	f.publicCalls++
	return f.event, f.eventErr
}

func (f *fakeAccessAPI) EventPhotos(ctx context.Context, code string) ([]snapcircle.Photo, error) {
	f.photoCalls++
	return f.photos, f.photosErr
}

func (f *fakeAccessAPI) EventPhotosWithFaces(ctx context.Context, code string) ([]snapcircle.PhotoWithFaces, error) {
	f.faceCalls++
	return f.faces, nil
}

func (f *fakeAccessAPI) EventGuests(ctx context.Context, code string) ([]snapcircle.User, error) {
	f.guestCalls++
	return f.guests, nil
}

func (f *fakeAccessAPI) EventQRCode(ctx context.Context, code string) (*snapcircle.QRCode, error) {
	f.qrCalls++
	return f.qr, nil
}

func (f *fakeAccessAPI) UploadEventPhotos(ctx context.Context, code string, filePaths []string) ([]snapcircle.Photo, error) {
	f.uploadCalls++
	f.uploadedBatch = filePaths
	uploaded := make([]snapcircle.Photo, len(filePaths))
	for i := range filePaths {
		uploaded[i] = snapcircle.Photo{ID: 100 + i}
	}
	f.photos = append(f.photos, uploaded...)
	return uploaded, nil
}

func (f *fakeAccessAPI) DeletePhoto(ctx context.Context, photoID int) error {
	f.deleteCalls++
	f.deletedPhotoID = photoID
	return nil
}

func (f *fakeAccessAPI) DeleteEvent(ctx context.Context, code string) error {
	f.deleteEvCalls++
	return nil
}

func (f *fakeAccessAPI) LeaveEvent(ctx context.Context, code string) error {
	f.leaveCalls++
	return nil
}

func testLimits() upload.Limits {
	return upload.Limits{MaxFileSize: 10 << 20, MaxBatch: 10}
}

func TestDeriveAccess(t *testing.T) {
	owner := &snapcircle.User{ID: 1}
	guest := &snapcircle.User{ID: 2}

	tests := []struct {
		name     string
		event    snapcircle.Event
		user     *snapcircle.User
		expected AccessLevel
	}{
		{"owner with zero counts", snapcircle.Event{OwnerID: 1}, owner, Owner},
		{"owner with counts", snapcircle.Event{OwnerID: 1, GuestCount: 5, PhotoCount: 3}, owner, Owner},
		{"guest via guest count", snapcircle.Event{OwnerID: 1, GuestCount: 2}, guest, RegisteredGuest},
		{"guest via photo count", snapcircle.Event{OwnerID: 1, PhotoCount: 7}, guest, RegisteredGuest},
		{"zero counts means unregistered", snapcircle.Event{OwnerID: 1}, guest, Unregistered},
		{"anonymous with counts", snapcircle.Event{OwnerID: 1, GuestCount: 1}, nil, RegisteredGuest},
		{"anonymous without counts", snapcircle.Event{OwnerID: 1}, nil, Unregistered},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveAccess(&tc.event, tc.user); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestLoad_OwnerFetchesEverything(t *testing.T) {
	api := &fakeAccessAPI{
		event:  &snapcircle.Event{ID: 1, Code: "ABC123", OwnerID: 1},
		photos: []snapcircle.Photo{{ID: 10}},
		guests: []snapcircle.User{{ID: 2}},
		qr:     &snapcircle.QRCode{RegistrationURL: "https://example.com/join/ABC123"},
	}
	c := NewController(api, "abc123", &snapcircle.User{ID: 1}, testLimits())

	v, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.Access != Owner {
		t.Fatalf("expected owner access, got %s", v.Access)
	}
	if len(v.Photos) != 1 || len(v.Guests) != 1 || v.QR == nil {
		t.Errorf("owner view incomplete: %d photos, %d guests, qr=%v", len(v.Photos), len(v.Guests), v.QR)
	}
	if api.faceCalls != 0 {
		t.Errorf("owner load should not fetch face matches, got %d calls", api.faceCalls)
	}
}

func TestLoad_GuestWithSelfieGetsMatches(t *testing.T) {
	matched := snapcircle.PhotoWithFaces{
		Photo: snapcircle.Photo{ID: 10},
		Faces: []snapcircle.PhotoFace{{MatchedUserID: 2}},
	}
	unmatched := snapcircle.PhotoWithFaces{
		Photo: snapcircle.Photo{ID: 11},
		Faces: []snapcircle.PhotoFace{{MatchedUserID: 99}},
	}
	api := &fakeAccessAPI{
		event:  &snapcircle.Event{ID: 1, Code: "ABC123", OwnerID: 1, GuestCount: 3},
		photos: []snapcircle.Photo{{ID: 10}, {ID: 11}},
		faces:  []snapcircle.PhotoWithFaces{matched, unmatched},
	}
	user := &snapcircle.User{ID: 2, SelfieImagePath: "uploads/selfies/2.jpg"}
	c := NewController(api, "ABC123", user, testLimits())

	v, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.Access != RegisteredGuest {
		t.Fatalf("expected guest access, got %s", v.Access)
	}
	if len(v.MyPhotos) != 1 || v.MyPhotos[0].ID != 10 {
		t.Errorf("expected only the matched photo, got %+v", v.MyPhotos)
	}
	if api.guestCalls != 0 || api.qrCalls != 0 {
		t.Error("guest load must not fetch owner-only datasets")
	}
}

func TestLoad_GuestWithoutSelfieSkipsMatches(t *testing.T) {
	api := &fakeAccessAPI{
		event: &snapcircle.Event{ID: 1, OwnerID: 1, PhotoCount: 4},
	}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 2}, testLimits())

	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if api.faceCalls != 0 {
		t.Errorf("expected no face fetch without a selfie, got %d calls", api.faceCalls)
	}
}

func TestLoad_UnauthorizedDiscardsView(t *testing.T) {
	api := &fakeAccessAPI{
		event: &snapcircle.Event{ID: 1, OwnerID: 1, GuestCount: 1},
	}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 2}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("initial Load failed: %v", err)
	}

	// The token dies between loads: the summary fetch now rejects.
	api.eventErr = &snapcircle.APIError{Status: 401, Code: snapcircle.CodeUnauthorized, Detail: "Could not validate credentials"}
	if _, err := c.Load(context.Background()); !snapcircle.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if v := c.View(); v.Event != nil {
		t.Error("expected stale view to be discarded after 401")
	}
}

func TestLoad_UnauthorizedDependentFetchDiscardsResults(t *testing.T) {
	api := &fakeAccessAPI{
		event:     &snapcircle.Event{ID: 1, OwnerID: 1, GuestCount: 1},
		photosErr: &snapcircle.APIError{Status: 401, Code: snapcircle.CodeUnauthorized, Detail: "Could not validate credentials"},
	}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 2}, testLimits())

	if _, err := c.Load(context.Background()); !snapcircle.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if v := c.View(); v.Event != nil {
		t.Error("results fetched under a rejected token must not be applied")
	}
}

func TestLoad_DependentFailureDegrades(t *testing.T) {
	api := &fakeAccessAPI{
		event:     &snapcircle.Event{ID: 1, OwnerID: 1, GuestCount: 1},
		photosErr: errors.New("connection reset"),
	}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 2}, testLimits())

	v, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("expected degraded load to succeed, got %v", err)
	}
	if v.Event == nil || v.Access != RegisteredGuest {
		t.Error("summary and access level should survive a photo fetch failure")
	}
	if len(v.Photos) != 0 {
		t.Errorf("expected empty photos on fetch failure, got %d", len(v.Photos))
	}
}

func TestUploadPhotos_BadFileRejectsWholeBatch(t *testing.T) {
	dir := t.TempDir()
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	var paths []string
	for _, name := range []string{"a.gif", "b.gif", "c.gif"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, gif, 0600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("not an image"), 0600); err != nil {
		t.Fatal(err)
	}

	api := &fakeAccessAPI{event: &snapcircle.Event{ID: 1, OwnerID: 1}}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 1}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	_, err := c.UploadPhotos(context.Background(), append(paths, bad))
	if _, ok := upload.AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if api.uploadCalls != 0 {
		t.Errorf("rejected batch must not reach the network, got %d upload calls", api.uploadCalls)
	}
}

func TestUploadPhotos_ValidBatchRefreshes(t *testing.T) {
	dir := t.TempDir()
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	path := filepath.Join(dir, "a.gif")
	if err := os.WriteFile(path, gif, 0600); err != nil {
		t.Fatal(err)
	}

	api := &fakeAccessAPI{event: &snapcircle.Event{ID: 1, OwnerID: 1}}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 1}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	loadsBefore := api.getEventCalls

	photos, err := c.UploadPhotos(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("UploadPhotos failed: %v", err)
	}
	if len(photos) != 1 {
		t.Errorf("expected 1 uploaded photo, got %d", len(photos))
	}
	if api.getEventCalls != loadsBefore+1 {
		t.Error("upload must refresh the derivation from server state")
	}
}

func TestDeletePhoto_GuestCannotDeleteOthersPhoto(t *testing.T) {
	api := &fakeAccessAPI{
		event:  &snapcircle.Event{ID: 1, OwnerID: 1, GuestCount: 2},
		photos: []snapcircle.Photo{{ID: 10, UploadedBy: 3}},
	}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 2}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.DeletePhoto(context.Background(), 10); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if api.deleteCalls != 0 {
		t.Error("guard must block the request before the network")
	}
}

func TestDeletePhoto_OwnerDeletesAnyPhoto(t *testing.T) {
	api := &fakeAccessAPI{
		event:  &snapcircle.Event{ID: 1, OwnerID: 1, GuestCount: 2},
		photos: []snapcircle.Photo{{ID: 10, UploadedBy: 3}},
	}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 1}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.DeletePhoto(context.Background(), 10); err != nil {
		t.Fatalf("DeletePhoto failed: %v", err)
	}
	if api.deletedPhotoID != 10 {
		t.Errorf("expected photo 10 deleted, got %d", api.deletedPhotoID)
	}
}

func TestDeleteEvent_GuestBlocked(t *testing.T) {
	api := &fakeAccessAPI{event: &snapcircle.Event{ID: 1, OwnerID: 1, GuestCount: 2}}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 2}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.DeleteEvent(context.Background()); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if api.deleteEvCalls != 0 {
		t.Error("guard must block the request before the network")
	}
}

func TestLeave_OwnerBlocked(t *testing.T) {
	api := &fakeAccessAPI{event: &snapcircle.Event{ID: 1, OwnerID: 1}}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 1}, testLimits())
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.Leave(context.Background()); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if api.leaveCalls != 0 {
		t.Error("guard must block the request before the network")
	}
}

func TestMutationBeforeLoad(t *testing.T) {
	api := &fakeAccessAPI{}
	c := NewController(api, "ABC123", &snapcircle.User{ID: 1}, testLimits())

	if err := c.DeletePhoto(context.Background(), 1); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("DeletePhoto: expected ErrNotLoaded, got %v", err)
	}
	if err := c.DeleteEvent(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("DeleteEvent: expected ErrNotLoaded, got %v", err)
	}
	if err := c.Leave(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Leave: expected ErrNotLoaded, got %v", err)
	}
}
