package duel

import "errors"

// Rejection errors delivered to the originating connection as `error`
// events. The messages are user-facing wire strings, so they keep
// their sentence casing.
var (
	ErrRoomNotFound      = errors.New("Room not found")
	ErrRoomFull          = errors.New("Room is full")
	ErrInvalidRoomCode   = errors.New("Invalid room code format")
	ErrNameRequired      = errors.New("Player name required")
	ErrNameTooLong       = errors.New("Player name too long (max 20 characters)")
	ErrEmptyCode         = errors.New("Code cannot be empty")
	ErrCodeTooLong       = errors.New("Code too long (max 50KB)")
	ErrInvalidLanguage   = errors.New("Invalid language")
	ErrAlreadySubmitting = errors.New("Already running tests. Please wait.")
	ErrPowerUpsLocked    = errors.New("Complete all test cases to unlock power-ups!")
)
