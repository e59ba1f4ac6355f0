package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// State names the controller's position in the admission flow.
type State int

const (
	StateIdle State = iota
	StateCreatingRoom
	// StateMeetingCreated holds the fresh room and passcode until the user
	// explicitly joins; sharing the passcode happens here.
	StateMeetingCreated
	StateJoiningRoom
	StateAwaitingToken
	StateInCall
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCreatingRoom:
		return "creating_room"
	case StateMeetingCreated:
		return "meeting_created"
	case StateJoiningRoom:
		return "joining_room"
	case StateAwaitingToken:
		return "awaiting_token"
	case StateInCall:
		return "in_call"
	default:
		return "error"
	}
}

var (
	// ErrEmptyPasscode is raised locally before any network call.
	ErrEmptyPasscode = errors.New("please enter a passcode")

	// ErrSuperseded marks a token request that lost to a newer one for the
	// same controller; its response is discarded.
	ErrSuperseded = errors.New("token request superseded")
)

// Controller drives the admission flow: collect identity, obtain a room or
// token, hand the credential to the conferencing surface. Single user
// session; methods are not meant to be interleaved except for the token
// in-flight guard.
type Controller struct {
	api      *Client
	prompter IdentityPrompter
	surface  Surface
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	state    State
	lastErr  string
	created  *CreatedMeeting
	identity string

	tokenSeq uint64
}

func NewController(api *Client, prompter IdentityPrompter, surface Surface, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		api:      api,
		prompter: prompter,
		surface:  surface,
		logger:   logger,
		state:    StateIdle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the message shown next to the triggering action.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Created returns the meeting held in the meeting-created sub-state.
func (c *Controller) Created() *CreatedMeeting {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	if s != StateError {
		c.lastErr = ""
	}
}

// fail records the user-facing message and leaves the controller in an
// interactive error state; the user may retry the action.
func (c *Controller) fail(msg string, err error) error {
	c.mu.Lock()
	c.state = StateError
	c.lastErr = msg
	c.mu.Unlock()

	c.logger.Warnw("session error", "message", msg, "error", err)
	if err != nil {
		return err
	}
	return errors.New(msg)
}

// collectIdentity prompts for a display name, falling back to a guest
// identity on an empty answer.
func (c *Controller) collectIdentity() string {
	name, err := c.prompter.PromptIdentity()
	if err != nil || name == "" {
		return GuestIdentity()
	}
	return name
}

// CreateMeeting mints a new meeting and holds it for an explicit join.
func (c *Controller) CreateMeeting(ctx context.Context) (*CreatedMeeting, error) {
	c.setState(StateCreatingRoom)
	identity := c.collectIdentity()

	created, err := c.api.CreateRoom(ctx, identity)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindServer && apiErr.Message != "" {
			return nil, c.fail(apiErr.Message, err)
		}
		return nil, c.fail("Failed to create meeting", err)
	}

	c.mu.Lock()
	c.created = created
	c.identity = identity
	c.state = StateMeetingCreated
	c.lastErr = ""
	c.mu.Unlock()

	c.logger.Infow("meeting created", "room", created.Room)
	return created, nil
}

// JoinCreated enters the meeting held by CreateMeeting.
func (c *Controller) JoinCreated(ctx context.Context) error {
	c.mu.Lock()
	created := c.created
	identity := c.identity
	c.mu.Unlock()

	if created == nil {
		return c.fail("No meeting created yet", nil)
	}
	return c.EnterRoom(ctx, created.Room, identity)
}

// JoinMeeting resolves a passcode and enters the meeting.
func (c *Controller) JoinMeeting(ctx context.Context, passcode string) error {
	if passcode == "" {
		// local validation, no network call
		return c.fail(ErrEmptyPasscode.Error(), ErrEmptyPasscode)
	}

	c.setState(StateJoiningRoom)
	identity := c.collectIdentity()

	room, err := c.api.JoinRoom(ctx, passcode, identity)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
			return c.fail("Invalid passcode", err)
		}
		return c.fail("Failed to join meeting", err)
	}

	return c.EnterRoom(ctx, room, identity)
}

// EnterRoom fetches a token for the room and hands it to the conferencing
// surface. An empty identity synthesizes a guest name, which makes a direct
// room link a valid entry point with no prior create or join call.
func (c *Controller) EnterRoom(ctx context.Context, room, identity string) error {
	if identity == "" {
		identity = GuestIdentity()
	}
	c.mu.Lock()
	c.state = StateAwaitingToken
	c.identity = identity
	c.mu.Unlock()

	// Guard against duplicate in-flight token requests: only the newest
	// request for this controller may proceed into the call.
	seq := atomic.AddUint64(&c.tokenSeq, 1)

	grant, err := c.api.Token(ctx, room, identity)
	if atomic.LoadUint64(&c.tokenSeq) != seq {
		c.logger.Debugw("discarding superseded token response", "room", room)
		return ErrSuperseded
	}
	if err != nil {
		return c.fail("Failed to load meeting", err)
	}

	if err := c.surface.Join(ctx, SurfaceOptions{
		ServerURL:   grant.URL,
		Token:       grant.Token,
		AutoConnect: true,
		EnableVideo: true,
		EnableAudio: true,
	}); err != nil {
		return c.fail("Failed to connect to meeting", err)
	}

	c.setState(StateInCall)
	c.logger.Infow("joined meeting", "room", room, "identity", identity)
	return nil
}

// Leave tears down the conferencing surface and returns to idle.
func (c *Controller) Leave() {
	c.surface.Leave()
	c.setState(StateIdle)
}
