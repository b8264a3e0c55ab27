// Package upload validates photo batches before they are sent to the backend.
// Validation is all-or-nothing: one bad file rejects the whole batch so the
// caller never ends up with a partial submission.
package upload

import (
	"errors"
	"fmt"
	"image"
	"os"

	// Register decoders so DecodeConfig can sniff the formats the backend accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Constraint names a validation rule a file or batch can violate.
type Constraint string

const (
	ConstraintMediaType Constraint = "media_type"
	ConstraintFileSize  Constraint = "file_size"
	ConstraintBatchSize Constraint = "batch_size"
	ConstraintEmpty     Constraint = "empty_batch"
)

// ValidationError reports which file violated which constraint. It is a
// client-side failure and never reaches the backend.
type ValidationError struct {
	File       string
	Constraint Constraint
	Message    string
}

func (e *ValidationError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

// Limits are the constraints applied to a batch.
type Limits struct {
	MaxFileSize int64 // bytes per file
	MaxBatch    int   // files per batch
}

// ValidateBatch checks every file against the limits. The first violation
// rejects the entire batch; on success all files are safe to submit together.
func ValidateBatch(paths []string, limits Limits) error {
	if len(paths) == 0 {
		return &ValidationError{Constraint: ConstraintEmpty, Message: "no files selected"}
	}
	if limits.MaxBatch > 0 && len(paths) > limits.MaxBatch {
		return &ValidationError{
			Constraint: ConstraintBatchSize,
			Message:    fmt.Sprintf("maximum %d files allowed, got %d", limits.MaxBatch, len(paths)),
		}
	}
	for _, path := range paths {
		if err := validateFile(path, limits.MaxFileSize); err != nil {
			return err
		}
	}
	return nil
}

// validateFile checks a single file's size and media type. The type check
// decodes the image header rather than trusting the file extension.
func validateFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return &ValidationError{
			File:       path,
			Constraint: ConstraintFileSize,
			Message:    fmt.Sprintf("file size %d exceeds limit of %d bytes", info.Size(), maxSize),
		}
	}

	file, err := os.Open(path) //nolint:gosec // user-provided file path for upload
	if err != nil {
		return fmt.Errorf("cannot open file %s: %w", path, err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return &ValidationError{
			File:       path,
			Constraint: ConstraintMediaType,
			Message:    "not a supported image format",
		}
	}
	return nil
}
