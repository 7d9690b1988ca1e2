package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrAlreadyCompleted  = errors.New("task already completed")
	ErrEmptyName         = errors.New("task name cannot be empty")
	ErrInvalidMinutes    = errors.New("predicted minutes must be positive")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrNotInitialized    = errors.New("weekplan not initialized (run 'weekplan init' first)")
	ErrUnknownDriver     = errors.New("unknown store driver")
	ErrInvalidTimezone   = errors.New("invalid timezone")
	ErrSchedulePersist   = errors.New("failed to save schedule")
	ErrProfilePersist    = errors.New("failed to save productivity profile")
	ErrInvalidDaytime    = errors.New("invalid daytime window")
	ErrInvalidImportFile = errors.New("invalid import file")
	ErrMalformedProfile  = errors.New("malformed productivity profile")
)
