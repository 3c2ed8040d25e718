package application

import "errors"

var (
	// ErrNoSigningKey is returned when signing is requested without a key
	// available for the active account.
	ErrNoSigningKey = errors.New("no signing key available")
	// ErrNullKey ...
	ErrNullKey = errors.New("key must not be null")
	// ErrNoMainAccount is returned when an operation requires a main account
	// and the registry is empty.
	ErrNoMainAccount = errors.New("no main account registered")
)
