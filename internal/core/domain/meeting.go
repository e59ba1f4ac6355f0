package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoomID is an opaque identifier naming a conferencing session on the
// LiveKit deployment. Rooms are never checked for existence against the
// platform; LiveKit creates them on first join.
type RoomID string

// Passcode is the human-shareable 6-digit admission secret.
type Passcode string

// Identity is a caller-supplied display name. It is asserted, not
// authenticated: there is no identity registry and no uniqueness check.
type Identity string

// Meeting binds a generated room to its passcode.
type Meeting struct {
	Room      RoomID    `json:"room"`
	Passcode  Passcode  `json:"passcode"`
	CreatedBy Identity  `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRoomID generates a fresh room identifier. Random generation keeps
// collision probability negligible for the registry's lifetime.
func NewRoomID() RoomID {
	return RoomID("room-" + uuid.New().String())
}

// AccessGrant is the issued credential plus the connection coordinates the
// client forwards to the conferencing surface.
type AccessGrant struct {
	Token string `json:"token"`
	URL   string `json:"url"`
	Room  RoomID `json:"room"`
}
