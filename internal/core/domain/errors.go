package domain

import "errors"

var (
	ErrPasscodeNotFound = errors.New("passcode not found")
	ErrPasscodeTaken    = errors.New("passcode already in use")
	ErrMissingRoom      = errors.New("room is required")
	ErrMissingIdentity  = errors.New("identity is required")
)
