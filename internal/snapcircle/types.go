package snapcircle

// User represents a SnapCircle account.
type User struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	SelfieImagePath string `json:"selfie_image_path,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// HasSelfie reports whether the user has a selfie on file. The raw image and
// its embedding are backend-owned; the client only sees the stored path.
func (u *User) HasSelfie() bool {
	return u != nil && u.SelfieImagePath != ""
}

// Event represents an event summary as returned by the backend.
//
// GuestCount and PhotoCount double as an access signal: the backend returns
// zero for both to callers that are neither the owner nor a registered guest,
// even when the true counts are nonzero.
type Event struct {
	ID          int    `json:"id"`
	Code        string `json:"event_code"`
	Name        string `json:"event_name"`
	Date        string `json:"event_date"`
	Description string `json:"description,omitempty"`
	OwnerID     int    `json:"owner_id"`
	Owner       User   `json:"owner"`
	GuestCount  int    `json:"guest_count"`
	PhotoCount  int    `json:"photo_count"`
	CreatedAt   string `json:"created_at"`
}

// EventCreate is the payload for creating an event.
type EventCreate struct {
	Name        string `json:"event_name"`
	Date        string `json:"event_date"`
	Description string `json:"description,omitempty"`
}

// Photo represents an event photo.
type Photo struct {
	ID               int    `json:"id"`
	EventID          int    `json:"event_id"`
	ImagePath        string `json:"image_path"`
	UploadedBy       int    `json:"uploaded_by"`
	UploadedAt       string `json:"uploaded_at"`
	OriginalFilename string `json:"original_filename,omitempty"`
	FileSize         int64  `json:"file_size,omitempty"`
	MimeType         string `json:"mime_type,omitempty"`
}

// PhotoFace is a face detected in a photo, optionally matched to a user.
type PhotoFace struct {
	ID            int    `json:"id"`
	PhotoID       int    `json:"photo_id"`
	FaceIndex     int    `json:"face_index"`
	BoundingBox   string `json:"bounding_box,omitempty"`
	MatchedUserID int    `json:"matched_user_id,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// PhotoWithFaces is a photo annotated with its detected faces.
type PhotoWithFaces struct {
	Photo
	Faces []PhotoFace `json:"faces"`
}

// MatchesUser reports whether any detected face in the photo was matched to
// the given user.
func (p *PhotoWithFaces) MatchesUser(userID int) bool {
	for _, face := range p.Faces {
		if face.MatchedUserID == userID {
			return true
		}
	}
	return false
}

// Registration is a guest registration for an event.
type Registration struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id"`
	EventID      int    `json:"event_id"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}

// FaceProcessingResult summarizes a completed face-processing batch.
type FaceProcessingResult struct {
	ProcessedPhotos    int    `json:"processed_photos"`
	TotalFacesDetected int    `json:"total_faces_detected"`
	TotalFacesMatched  int    `json:"total_faces_matched"`
	Message            string `json:"message"`
}

// QRCode is the owner-only invite payload for an event.
type QRCode struct {
	QRCode          string `json:"qr_code"`
	RegistrationURL string `json:"registration_url"`
}

// Message is the backend's generic confirmation envelope.
type Message struct {
	Message string `json:"message"`
}
