package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedPrompter struct {
	name string
}

func (p *fixedPrompter) PromptIdentity() (string, error) {
	return p.name, nil
}

type fakeSurface struct {
	mu       sync.Mutex
	joins    int
	lastOpts SurfaceOptions
}

func (s *fakeSurface) Join(ctx context.Context, opts SurfaceOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joins++
	s.lastOpts = opts
	return nil
}

func (s *fakeSurface) Leave() {}

func (s *fakeSurface) joinCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joins
}

// admissionStub is a minimal in-process admission server for controller
// tests.
type admissionStub struct {
	mu            sync.Mutex
	rooms         map[string]string // passcode -> room
	calls         int64
	lastIdentity  string
	tokenBlock    chan struct{} // when set, the first token request waits on it
	tokenBlockHit int32
}

func newAdmissionStub() *admissionStub {
	return &admissionStub{rooms: map[string]string{"482913": "room-123"}}
}

func (s *admissionStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/create-room", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.calls, 1)
		json.NewEncoder(w).Encode(map[string]string{"room": "room-123", "passcode": "482913"})
	})
	mux.HandleFunc("/join-room", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.calls, 1)
		var req struct {
			Passcode string `json:"passcode"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		s.mu.Lock()
		room, ok := s.rooms[req.Passcode]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid passcode"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"room": room})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.calls, 1)
		var req struct {
			Room     string `json:"room"`
			Identity string `json:"identity"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		s.mu.Lock()
		s.lastIdentity = req.Identity
		block := s.tokenBlock
		s.mu.Unlock()

		if block != nil && atomic.CompareAndSwapInt32(&s.tokenBlockHit, 0, 1) {
			<-block
		}

		json.NewEncoder(w).Encode(map[string]string{
			"token": "signed-token",
			"url":   "wss://livekit.example.com",
			"room":  req.Room,
		})
	})
	return mux
}

func newTestController(t *testing.T, stub *admissionStub, name string) (*Controller, *fakeSurface) {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	surface := &fakeSurface{}
	api := NewClient(srv.URL, 5*time.Second)
	ctrl := NewController(api, &fixedPrompter{name: name}, surface, zap.NewNop().Sugar())
	return ctrl, surface
}

func TestCreateMeeting_HoldsCreatedState(t *testing.T) {
	ctrl, _ := newTestController(t, newAdmissionStub(), "alice")

	created, err := ctrl.CreateMeeting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "room-123", created.Room)
	assert.Equal(t, "482913", created.Passcode)
	assert.Equal(t, StateMeetingCreated, ctrl.State())
	assert.Equal(t, created, ctrl.Created())
}

func TestCreateMeeting_ServerErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "registry on fire"})
	}))
	defer srv.Close()

	surface := &fakeSurface{}
	ctrl := NewController(NewClient(srv.URL, time.Second), &fixedPrompter{name: "alice"}, surface, zap.NewNop().Sugar())

	_, err := ctrl.CreateMeeting(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, ctrl.State())
	assert.Equal(t, "registry on fire", ctrl.LastError())
}

func TestJoinMeeting_EmptyPasscodeIsLocal(t *testing.T) {
	stub := newAdmissionStub()
	ctrl, surface := newTestController(t, stub, "carol")

	err := ctrl.JoinMeeting(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPasscode)
	assert.Equal(t, StateError, ctrl.State())
	assert.Equal(t, int64(0), atomic.LoadInt64(&stub.calls), "no network call expected")
	assert.Equal(t, 0, surface.joinCount())
}

func TestJoinMeeting_InvalidPasscode(t *testing.T) {
	ctrl, surface := newTestController(t, newAdmissionStub(), "carol")

	err := ctrl.JoinMeeting(context.Background(), "999999")
	require.Error(t, err)
	assert.Equal(t, StateError, ctrl.State())
	assert.Equal(t, "Invalid passcode", ctrl.LastError())
	assert.Equal(t, 0, surface.joinCount())
}

func TestJoinMeeting_ReachesInCall(t *testing.T) {
	ctrl, surface := newTestController(t, newAdmissionStub(), "carol")

	err := ctrl.JoinMeeting(context.Background(), "482913")
	require.NoError(t, err)
	assert.Equal(t, StateInCall, ctrl.State())

	require.Equal(t, 1, surface.joinCount())
	assert.Equal(t, "signed-token", surface.lastOpts.Token)
	assert.Equal(t, "wss://livekit.example.com", surface.lastOpts.ServerURL)
	assert.True(t, surface.lastOpts.AutoConnect)
	assert.True(t, surface.lastOpts.EnableVideo)
	assert.True(t, surface.lastOpts.EnableAudio)
}

func TestEnterRoom_SynthesizesGuestIdentity(t *testing.T) {
	stub := newAdmissionStub()
	ctrl, surface := newTestController(t, stub, "ignored")

	// Direct room-link entry: no create or join call happened before.
	err := ctrl.EnterRoom(context.Background(), "room-123", "")
	require.NoError(t, err)
	assert.Equal(t, StateInCall, ctrl.State())
	assert.Equal(t, 1, surface.joinCount())

	stub.mu.Lock()
	identity := stub.lastIdentity
	stub.mu.Unlock()
	assert.True(t, strings.HasPrefix(identity, "Guest-"), "got identity %q", identity)
}

func TestEnterRoom_SupersededRequestDiscarded(t *testing.T) {
	stub := newAdmissionStub()
	stub.tokenBlock = make(chan struct{})
	ctrl, surface := newTestController(t, stub, "carol")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- ctrl.EnterRoom(context.Background(), "room-123", "carol")
	}()

	// Let the first request reach the server and park there.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&stub.tokenBlockHit) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A rapid re-mount fires a second request, which wins.
	require.NoError(t, ctrl.EnterRoom(context.Background(), "room-123", "carol"))
	assert.Equal(t, StateInCall, ctrl.State())

	close(stub.tokenBlock)
	err := <-firstDone
	assert.ErrorIs(t, err, ErrSuperseded)

	// The stale response must not have joined the surface again.
	assert.Equal(t, 1, surface.joinCount())
	assert.Equal(t, StateInCall, ctrl.State())
}
