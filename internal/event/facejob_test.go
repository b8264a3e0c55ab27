package event

import (
	"context"
	"errors"
	"testing"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
)

type fakeFaceAPI struct {
	result  *snapcircle.FaceProcessingResult
	err     error
	block   chan struct{} // when set, ProcessFaces waits until closed
	calls   int
	lastIDs []int
}

func (f *fakeFaceAPI) ProcessFaces(ctx context.Context, photoIDs []int) (*snapcircle.FaceProcessingResult, error) {
	f.calls++
	f.lastIDs = photoIDs
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestTracker_EmptySelectionFailsFast(t *testing.T) {
	api := &fakeFaceAPI{}
	tr := NewTracker(api)

	if _, err := tr.Start(context.Background(), nil); !errors.Is(err, ErrNothingToProcess) {
		t.Fatalf("expected ErrNothingToProcess, got %v", err)
	}
	if api.calls != 0 {
		t.Error("empty selection must not reach the network")
	}
	if tr.Status().State != JobIdle {
		t.Errorf("expected idle, got %s", tr.Status().State)
	}
}

func TestTracker_CompletionRetainsResultAndBumpsGeneration(t *testing.T) {
	api := &fakeFaceAPI{result: &snapcircle.FaceProcessingResult{
		ProcessedPhotos:    3,
		TotalFacesDetected: 5,
		TotalFacesMatched:  2,
		Message:            "Processed 3 photos",
	}}
	tr := NewTracker(api)

	id, err := tr.Start(context.Background(), []int{10, 11, 12})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if id == "" {
		t.Error("expected a job ID")
	}

	status := tr.Wait()
	if status.State != JobCompleted {
		t.Fatalf("expected completed, got %s", status.State)
	}
	if status.Current != status.Total || status.Total != 3 {
		t.Errorf("expected progress 3/3, got %d/%d", status.Current, status.Total)
	}
	if status.Result == nil || status.Result.TotalFacesMatched != 2 {
		t.Errorf("expected retained result, got %+v", status.Result)
	}
	if tr.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", tr.Generation())
	}

	// The result survives until the next Start.
	if again := tr.Status(); again.Result == nil {
		t.Error("result must be retained after completion")
	}
}

func TestTracker_FailureKeepsBackendMessage(t *testing.T) {
	api := &fakeFaceAPI{err: &snapcircle.APIError{
		Status: 500,
		Code:   snapcircle.CodeServer,
		Detail: "Face processing failed: model unavailable",
	}}
	tr := NewTracker(api)

	if _, err := tr.Start(context.Background(), []int{10}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := tr.Wait()
	if status.State != JobFailed {
		t.Fatalf("expected failed, got %s", status.State)
	}
	if status.Error != "Face processing failed: model unavailable" {
		t.Errorf("backend detail must be preserved verbatim, got %q", status.Error)
	}
	if tr.Generation() != 0 {
		t.Error("failure must not bump the generation")
	}

	// A failed job does not block a retry.
	api.err = nil
	api.result = &snapcircle.FaceProcessingResult{ProcessedPhotos: 1, Message: "Processed 1 photo"}
	if _, err := tr.Start(context.Background(), []int{10}); err != nil {
		t.Fatalf("retry Start failed: %v", err)
	}
	if final := tr.Wait(); final.State != JobCompleted {
		t.Errorf("expected retry to complete, got %s", final.State)
	}
}

func TestTracker_RejectsConcurrentStart(t *testing.T) {
	api := &fakeFaceAPI{
		block:  make(chan struct{}),
		result: &snapcircle.FaceProcessingResult{ProcessedPhotos: 1},
	}
	tr := NewTracker(api)

	if _, err := tr.Start(context.Background(), []int{10}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := tr.Start(context.Background(), []int{11}); !errors.Is(err, ErrJobRunning) {
		t.Fatalf("expected ErrJobRunning, got %v", err)
	}

	close(api.block)
	tr.Wait()
	if api.calls != 1 {
		t.Errorf("expected a single batch call, got %d", api.calls)
	}
}

func TestTracker_NewJobReplacesOldResult(t *testing.T) {
	api := &fakeFaceAPI{result: &snapcircle.FaceProcessingResult{ProcessedPhotos: 2, Message: "first"}}
	tr := NewTracker(api)

	if _, err := tr.Start(context.Background(), []int{1, 2}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	first := tr.Wait()

	api.result = &snapcircle.FaceProcessingResult{ProcessedPhotos: 1, Message: "second"}
	id, err := tr.Start(context.Background(), []int{3})
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if id == first.ID {
		t.Error("each job must get a fresh ID")
	}
	second := tr.Wait()
	if second.Result.Message != "second" {
		t.Errorf("expected the new result, got %q", second.Result.Message)
	}
	if tr.Generation() != 2 {
		t.Errorf("expected generation 2, got %d", tr.Generation())
	}
}
