package ports

import (
	"context"

	"meetlite/internal/core/domain"
)

// MeetingRepository is the passcode registry. Backends only ever add new
// passcodes and read existing ones; entries are never mutated in place.
type MeetingRepository interface {
	// Create stores the passcode→room mapping. Returns
	// domain.ErrPasscodeTaken when the passcode is already present so the
	// caller can regenerate instead of overwriting.
	Create(ctx context.Context, meeting *domain.Meeting) error

	// GetByPasscode resolves a passcode. Returns domain.ErrPasscodeNotFound
	// for passcodes that were never issued or have expired.
	GetByPasscode(ctx context.Context, passcode domain.Passcode) (*domain.Meeting, error)
}
