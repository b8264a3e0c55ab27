package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
	"github.com/snapcircle/snapcircle/internal/upload"
)

// newBackend builds a mock SnapCircle backend with event ABC123 owned by
// user 1 (token "token123").
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Could not validate credentials"}`))
			return
		}
		w.Write([]byte(`{"id": 1, "name": "Owner", "email": "owner@example.com"}`))
	})
	mux.HandleFunc("GET /api/events/ABC123", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "event_code": "ABC123", "event_name": "Wedding", "owner_id": 1, "guest_count": 2, "photo_count": 1}`))
	})
	mux.HandleFunc("GET /api/events/public/ABC123", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "event_code": "ABC123", "event_name": "Wedding", "owner_id": 1}`))
	})
	mux.HandleFunc("GET /api/photos/events/ABC123", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 10, "event_id": 1, "image_path": "uploads/events/1/a.jpg", "uploaded_by": 1}]`))
	})
	mux.HandleFunc("GET /api/events/ABC123/guests", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 2, "name": "Guest"}]`))
	})
	mux.HandleFunc("GET /api/events/ABC123/qr-code", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"qr_code": "data:image/png;base64,abc", "registration_url": "https://example.com/join/ABC123"}`))
	})
	mux.HandleFunc("POST /api/photos/process-faces", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"processed_photos": 1, "total_faces_detected": 2, "total_faces_matched": 1, "message": "Processed 1 photos"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, token string) (*Server, string) {
	t.Helper()
	backend := newBackend(t)

	var opts []snapcircle.Option
	if token != "" {
		opts = append(opts, snapcircle.WithToken(token))
	}
	client, err := snapcircle.New(backend.URL, opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	s := NewServer(client, upload.Limits{MaxFileSize: 10 << 20, MaxBatch: 10}, "127.0.0.1", 0)
	return s, backend.URL
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetEvent_OwnerView(t *testing.T) {
	s, backendURL := newTestServer(t, "token123")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/events/abc123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Access string `json:"access"`
		Photos []struct {
			URL string `json:"url"`
		} `json:"photos"`
		Guests []struct {
			ID int `json:"id"`
		} `json:"guests"`
		QR *struct {
			RegistrationURL string `json:"registration_url"`
		} `json:"qr"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Access != "owner" {
		t.Errorf("expected owner access, got %q", resp.Access)
	}
	if len(resp.Photos) != 1 || resp.Photos[0].URL != backendURL+"/uploads/events/1/a.jpg" {
		t.Errorf("expected resolved photo URL, got %+v", resp.Photos)
	}
	if len(resp.Guests) != 1 || resp.QR == nil {
		t.Errorf("owner view incomplete: %+v", resp)
	}
}

func TestGetEventPhotos_ResolvesURLs(t *testing.T) {
	s, backendURL := newTestServer(t, "token123")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/events/ABC123/photos", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), backendURL+"/uploads/events/1/a.jpg") {
		t.Errorf("expected resolved photo URL in %s", rec.Body.String())
	}
}

func TestJoin_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/events/ABC123/join", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestFaceProcess_EmptySelectionRejected(t *testing.T) {
	s, _ := newTestServer(t, "token123")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/faces/process", strings.NewReader(`{"photo_ids": []}`))
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFaceProcess_CompletesAndBumpsGeneration(t *testing.T) {
	s, _ := newTestServer(t, "token123")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/faces/process", strings.NewReader(`{"photo_ids": [10]}`))
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var status struct {
		State      string `json:"state"`
		Current    int    `json:"current"`
		Total      int    `json:"total"`
		Generation uint64 `json:"generation"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/faces/job", nil))
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("failed to decode status: %v", err)
		}
		if status.State == "completed" || status.State == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, last state %q", status.State)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if status.State != "completed" {
		t.Fatalf("expected completed, got %q", status.State)
	}
	if status.Current != 1 || status.Total != 1 {
		t.Errorf("expected progress 1/1, got %d/%d", status.Current, status.Total)
	}
	if status.Generation != 1 {
		t.Errorf("expected generation 1, got %d", status.Generation)
	}
}
