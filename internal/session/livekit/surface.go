package livekit

import (
	"context"
	"fmt"
	"sync"

	"meetlite/internal/session"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"
)

// Surface joins the LiveKit room as a participant via the platform SDK.
// Media transport, track negotiation and rendering all happen inside the
// SDK; the controller only hands over the credential.
type Surface struct {
	logger *zap.SugaredLogger

	mu   sync.Mutex
	room *lksdk.Room
}

func NewSurface(logger *zap.SugaredLogger) *Surface {
	return &Surface{logger: logger}
}

var _ session.Surface = (*Surface)(nil)

func (s *Surface) Join(ctx context.Context, opts session.SurfaceOptions) error {
	if !opts.AutoConnect {
		s.logger.Infow("auto-connect disabled, holding credential without joining")
		return nil
	}

	callback := &lksdk.RoomCallback{
		OnDisconnected: func() {
			s.logger.Infow("disconnected from room")
		},
	}

	room, err := lksdk.ConnectToRoomWithToken(
		opts.ServerURL,
		opts.Token,
		callback,
		lksdk.WithAutoSubscribe(opts.EnableVideo || opts.EnableAudio),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to room: %w", err)
	}

	s.mu.Lock()
	s.room = room
	s.mu.Unlock()

	s.logger.Infow("connected to room",
		"room", room.Name(),
		"video", opts.EnableVideo,
		"audio", opts.EnableAudio,
	)
	return nil
}

func (s *Surface) Leave() {
	s.mu.Lock()
	room := s.room
	s.room = nil
	s.mu.Unlock()

	if room != nil {
		room.Disconnect()
	}
}
