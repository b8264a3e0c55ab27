package snapcircle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// addFileToMultipart opens a file and writes it to the multipart writer under
// the given form field.
func addFileToMultipart(writer *multipart.Writer, field, filePath string) error {
	file, err := os.Open(filePath) //nolint:gosec // user-provided file path for upload
	if err != nil {
		return fmt.Errorf("could not open file %s: %w", filePath, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("could not copy file data: %w", err)
	}
	return nil
}

// UploadEventPhotos uploads photos to an event as one multipart request.
// Callers are expected to validate files first (see the upload package); the
// backend is the authority and re-checks access.
func (c *Client) UploadEventPhotos(ctx context.Context, code string, filePaths []string) ([]Photo, error) {
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, filePath := range filePaths {
		if err := addFileToMultipart(writer, "files", filePath); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	endpoint := "photos/events/" + CanonicalCode(code)
	photos, err := doMultipart[[]Photo](ctx, c, http.MethodPost, endpoint, writer.FormDataContentType(), &body, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *photos, nil
}

// EventPhotos lists all photos of an event. Requires owner or guest access.
func (c *Client) EventPhotos(ctx context.Context, code string) ([]Photo, error) {
	photos, err := doGetJSON[[]Photo](ctx, c, "photos/events/"+CanonicalCode(code))
	if err != nil {
		return nil, err
	}
	return *photos, nil
}

// EventPhotosWithFaces lists event photos annotated with detected faces.
func (c *Client) EventPhotosWithFaces(ctx context.Context, code string) ([]PhotoWithFaces, error) {
	photos, err := doGetJSON[[]PhotoWithFaces](ctx, c, "photos/events/"+CanonicalCode(code)+"/with-faces")
	if err != nil {
		return nil, err
	}
	return *photos, nil
}

// DeletePhoto deletes a photo. The backend permits only the uploader or the
// event owner.
func (c *Client) DeletePhoto(ctx context.Context, photoID int) error {
	_, err := doDeleteJSON[Message](ctx, c, "photos/"+strconv.Itoa(photoID))
	return err
}

// faceProcessingRequest is the batch face-processing payload.
type faceProcessingRequest struct {
	PhotoIDs []int `json:"photo_ids"`
}

// ProcessFaces triggers the backend face detection and matching batch for the
// given photos. The call blocks until the whole batch is done; there is no
// per-photo progress on the wire.
func (c *Client) ProcessFaces(ctx context.Context, photoIDs []int) (*FaceProcessingResult, error) {
	return doPostJSON[FaceProcessingResult](ctx, c, "photos/process-faces", faceProcessingRequest{PhotoIDs: photoIDs})
}

// UploadProfileSelfie uploads or replaces the current user's profile selfie.
func (c *Client) UploadProfileSelfie(ctx context.Context, filePath string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := addFileToMultipart(writer, "file", filePath); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("could not close writer: %w", err)
	}

	_, err := doMultipart[Message](ctx, c, http.MethodPost, "photos/profile", writer.FormDataContentType(), &body, http.StatusOK)
	return err
}

// DeleteProfileSelfie removes the current user's profile selfie.
func (c *Client) DeleteProfileSelfie(ctx context.Context) error {
	_, err := doDeleteJSON[Message](ctx, c, "photos/profile")
	return err
}
