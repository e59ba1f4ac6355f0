package ports

import (
	"context"

	"meetlite/internal/core/domain"
)

// AdmissionService maps passcodes to rooms.
type AdmissionService interface {
	// CreateMeeting mints a fresh room and passcode and registers the pair.
	// The identity is recorded on the meeting but grants nothing.
	CreateMeeting(ctx context.Context, identity domain.Identity) (*domain.Meeting, error)

	// JoinMeeting resolves a passcode to its room. Admission is
	// passcode-only; the identity plays no part in authorization.
	JoinMeeting(ctx context.Context, passcode domain.Passcode) (*domain.Meeting, error)
}

// TokenService mints join credentials for the conferencing platform.
type TokenService interface {
	// IssueToken produces a signed, time-bounded credential granting join
	// permission for exactly one room, bound to the given identity.
	IssueToken(ctx context.Context, room domain.RoomID, identity domain.Identity) (*domain.AccessGrant, error)
}
