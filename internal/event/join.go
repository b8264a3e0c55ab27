package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/snapcircle/snapcircle/internal/snapcircle"
)

// JoinState is the visitor's position in the join flow.
type JoinState int

const (
	JoinLookingUp JoinState = iota
	JoinAwaitingAuth
	JoinInProgress
	Joined
	OwnerRecognized
	JoinAuthPending // registered, but the convenience auto-login failed
	JoinFailed
)

func (s JoinState) String() string {
	switch s {
	case JoinLookingUp:
		return "looking_up"
	case JoinAwaitingAuth:
		return "awaiting_auth"
	case JoinInProgress:
		return "joining"
	case Joined:
		return "joined"
	case OwnerRecognized:
		return "owner_recognized"
	case JoinAuthPending:
		return "auth_pending"
	default:
		return "failed"
	}
}

// Terminal reports whether the flow reached a final state.
func (s JoinState) Terminal() bool {
	return s == Joined || s == OwnerRecognized || s == JoinAuthPending || s == JoinFailed
}

// JoinAPI is the backend surface the orchestrator needs.
type JoinAPI interface {
	GetEventPublic(ctx context.Context, code string) (*snapcircle.Event, error)
	JoinEvent(ctx context.Context, code string) (*snapcircle.Registration, error)
	Login(ctx context.Context, email, password string) (string, error)
	RegisterWithSelfie(ctx context.Context, code, name, email, password, selfiePath string) (*snapcircle.Registration, error)
	Authenticated() bool
}

// FieldError is a client-side form error tied to a single input. It blocks
// submission and never reaches the backend.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RegistrationForm is the data collected from a visitor creating an account
// as part of joining an event.
type RegistrationForm struct {
	Name       string
	Email      string
	Password   string
	SelfiePath string
}

// Orchestrator brings a visitor who arrived via a shared event link to
// registered-guest status (or recognizes them as the owner), without
// duplicate registrations.
//
// Already-registered and own-event rejections from the backend are
// informational outcomes, not errors: both end the flow successfully.
type Orchestrator struct {
	api  JoinAPI
	code string

	mu      sync.Mutex
	state   JoinState
	event   *snapcircle.Event
	message string
	joining bool // re-entrancy guard for the join mutation
}

// NewOrchestrator creates a join flow for the given event code.
func NewOrchestrator(api JoinAPI, code string) *Orchestrator {
	return &Orchestrator{
		api:   api,
		code:  snapcircle.CanonicalCode(code),
		state: JoinLookingUp,
	}
}

// State returns the current flow state.
func (o *Orchestrator) State() JoinState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Event returns the looked-up event, nil before a successful lookup.
func (o *Orchestrator) Event() *snapcircle.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.event
}

// Message returns the human-readable outcome or failure text.
func (o *Orchestrator) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.message
}

// Lookup fetches the event via the public endpoint. Authenticated visitors
// proceed straight to joining; anonymous ones wait for authentication.
func (o *Orchestrator) Lookup(ctx context.Context) (*snapcircle.Event, error) {
	ev, err := o.api.GetEventPublic(ctx, o.code)
	if err != nil {
		o.mu.Lock()
		o.state = JoinFailed
		o.message = snapcircle.ErrorDetail(err)
		o.mu.Unlock()
		return nil, err
	}

	o.mu.Lock()
	o.event = ev
	o.state = JoinAwaitingAuth
	o.mu.Unlock()

	if o.api.Authenticated() {
		return ev, o.Join(ctx)
	}
	return ev, nil
}

// AuthenticationEstablished is the explicit transition fired when the visitor
// becomes authenticated (fresh login or post-registration auto-login). If a
// join is pending it runs; an in-flight or finished join makes this a no-op.
func (o *Orchestrator) AuthenticationEstablished(ctx context.Context) error {
	o.mu.Lock()
	ready := o.event != nil && !o.state.Terminal()
	o.mu.Unlock()
	if !ready {
		return nil
	}
	return o.Join(ctx)
}

// Join performs the join mutation. Calling it when already joined (or
// recognized as owner) is a no-op success; concurrent calls are collapsed by
// the busy guard so authentication-state churn cannot issue two join requests.
func (o *Orchestrator) Join(ctx context.Context) error {
	o.mu.Lock()
	if o.event == nil {
		o.mu.Unlock()
		return ErrNotLoaded
	}
	if o.state == Joined || o.state == OwnerRecognized {
		o.mu.Unlock()
		return nil
	}
	if o.joining {
		o.mu.Unlock()
		return nil
	}
	o.joining = true
	o.state = JoinInProgress
	o.mu.Unlock()

	_, err := o.api.JoinEvent(ctx, o.code)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.joining = false

	switch {
	case err == nil:
		o.state = Joined
		o.message = "Successfully joined the event"
	case snapcircle.IsCode(err, snapcircle.CodeAlreadyRegistered):
		o.state = Joined
		o.message = "You're already registered for this event"
	case snapcircle.IsCode(err, snapcircle.CodeCannotJoinOwnEvent):
		o.state = OwnerRecognized
		o.message = "This is your event"
	default:
		o.state = JoinFailed
		o.message = snapcircle.ErrorDetail(err)
		return err
	}
	return nil
}

// Register creates an account with the attached selfie, auto-logs-in, and
// joins. A missing selfie blocks submission with a field error before any
// request is sent. If registration succeeds but the convenience auto-login
// fails, the flow ends in JoinAuthPending: the account exists and the visitor
// is sent to manual login instead of being shown an error.
func (o *Orchestrator) Register(ctx context.Context, form RegistrationForm) error {
	if form.SelfiePath == "" {
		return &FieldError{Field: "selfie", Message: "a selfie is required for face recognition"}
	}

	if _, err := o.api.RegisterWithSelfie(ctx, o.code, form.Name, form.Email, form.Password, form.SelfiePath); err != nil {
		o.mu.Lock()
		o.state = JoinFailed
		o.message = snapcircle.ErrorDetail(err)
		o.mu.Unlock()
		return err
	}

	if _, err := o.api.Login(ctx, form.Email, form.Password); err != nil {
		o.mu.Lock()
		o.state = JoinAuthPending
		o.message = "Registration successful, please log in to continue"
		o.mu.Unlock()
		return nil
	}

	return o.AuthenticationEstablished(ctx)
}
