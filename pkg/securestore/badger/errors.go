package badgersecurestore

import "errors"

var (
	// ErrStoreLocked is returned when attempting any operation on the store
	// while it's locked.
	ErrStoreLocked = errors.New("store is locked")
	// ErrPasswordRequired is returned if a nil password is used to unlock the
	// store.
	ErrPasswordRequired = errors.New("a non-nil password is required")
	// ErrInvalidPassword is returned when unlocking with a wrong password.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrMissingDataKey is returned if an empty key is used for any operation.
	ErrMissingDataKey = errors.New("data key must not be empty")
	// ErrForbiddenDataKey is returned if attempting to use the reserved
	// encryption-check key.
	ErrForbiddenDataKey = errors.New("data key is reserved and can't be used")
	// ErrMissingData is returned if attempting to store an empty value.
	ErrMissingData = errors.New("data must not be empty")
)
