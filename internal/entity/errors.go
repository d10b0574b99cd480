package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")

	// Participation errors
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyJoined       = errors.New("already a participant or waitlisted")
	ErrPasscodeRequired    = errors.New("passcode required")
	ErrInvalidPasscode     = errors.New("invalid passcode")

	// General errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrConcurrentUpdate = errors.New("concurrent update detected")
)
