package event

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
)

// JobState is the lifecycle position of a face-processing job.
type JobState int

const (
	JobIdle JobState = iota
	JobRequested
	JobInProgress
	JobCompleted
	JobFailed
)

func (s JobState) String() string {
	switch s {
	case JobIdle:
		return "idle"
	case JobRequested:
		return "requested"
	case JobInProgress:
		return "in_progress"
	case JobCompleted:
		return "completed"
	default:
		return "failed"
	}
}

// ErrNothingToProcess rejects a job start with no photos selected, before any
// request is made.
var ErrNothingToProcess = errors.New("no photos to process")

// ErrJobRunning rejects a job start while a previous job is still in flight.
var ErrJobRunning = errors.New("a face-processing job is already running")

// FaceAPI is the backend surface the tracker needs.
type FaceAPI interface {
	ProcessFaces(ctx context.Context, photoIDs []int) (*snapcircle.FaceProcessingResult, error)
}

// JobStatus is a point-in-time snapshot of the tracker.
type JobStatus struct {
	ID      string
	State   JobState
	Current int
	Total   int
	Result  *snapcircle.FaceProcessingResult // set in JobCompleted
	Error   string                           // backend detail, set in JobFailed
}

// Tracker runs face-processing jobs one at a time and exposes their progress.
//
// The backend processes a batch in a single blocking call, so progress is
// coarse: Current stays at zero while the call is in flight and jumps to Total
// on completion. Consumers must treat (Current, Total) as monotonic within a
// job, never as an exact count.
//
// A completed result is retained until the next Start so it can be rendered
// after the job finishes. Completion also bumps a generation counter; photo
// views cached before the bump are stale and must be refetched, because
// matches made by the job are not reflected in them.
type Tracker struct {
	api FaceAPI

	mu         sync.Mutex
	status     JobStatus
	generation uint64
	done       chan struct{} // closed when the running job finishes
}

// NewTracker creates an idle tracker.
func NewTracker(api FaceAPI) *Tracker {
	return &Tracker{api: api}
}

// Status returns a snapshot of the current or most recent job.
func (t *Tracker) Status() JobStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Generation returns the completion counter. It increases by one every time a
// job completes successfully.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

// Start begins processing the given photos in the background and returns the
// job ID. An empty selection fails fast with ErrNothingToProcess and a running
// job rejects the start with ErrJobRunning; neither touches the network.
func (t *Tracker) Start(ctx context.Context, photoIDs []int) (string, error) {
	if len(photoIDs) == 0 {
		return "", ErrNothingToProcess
	}

	t.mu.Lock()
	if t.status.State == JobRequested || t.status.State == JobInProgress {
		t.mu.Unlock()
		return "", ErrJobRunning
	}
	id := uuid.NewString()
	t.status = JobStatus{
		ID:    id,
		State: JobRequested,
		Total: len(photoIDs),
	}
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go func() {
		defer close(done)
		t.run(ctx, photoIDs)
	}()
	return id, nil
}

// Wait blocks until the current job finishes and returns its final status.
// Waiting with no job running returns the last status immediately.
func (t *Tracker) Wait() JobStatus {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
	return t.Status()
}

func (t *Tracker) run(ctx context.Context, photoIDs []int) {
	t.mu.Lock()
	t.status.State = JobInProgress
	t.mu.Unlock()

	result, err := t.api.ProcessFaces(ctx, photoIDs)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.status.State = JobFailed
		t.status.Error = snapcircle.ErrorDetail(err)
		return
	}
	t.status.State = JobCompleted
	t.status.Current = t.status.Total
	t.status.Result = result
	t.generation++
}
