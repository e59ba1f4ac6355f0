package session

import "context"

// SurfaceOptions mirrors the conferencing widget contract: the credential,
// the platform URL and the connect/media toggles.
type SurfaceOptions struct {
	ServerURL   string
	Token       string
	AutoConnect bool
	EnableVideo bool
	EnableAudio bool
}

// Surface is the prebuilt conferencing view. Its internals (media
// transport, rendering, track negotiation) are the platform's concern and
// opaque to the controller.
type Surface interface {
	Join(ctx context.Context, opts SurfaceOptions) error
	Leave()
}
