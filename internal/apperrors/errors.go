package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// ErrInvalidCredentials is returned for unknown username and wrong
	// password alike, so login responses can't be used to probe which
	// usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionInvalid     = errors.New("session is missing, expired or invalid")

	ErrContentEmpty  = errors.New("entry content is empty")
	ErrEntryInvalid  = errors.New("entry is invalid")
	ErrEntryNotFound = errors.New("entry not found")
)
