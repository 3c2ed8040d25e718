package domain

import "errors"

var (
	// ErrUnknownListVersion is returned when decoding an account list blob
	// whose version tag is not recognized.
	ErrUnknownListVersion = errors.New("unknown account list version")
	// ErrMalformedAccountList is returned when the account list blob can't be
	// parsed at all.
	ErrMalformedAccountList = errors.New("malformed account list blob")
	// ErrEmptyAccountID ...
	ErrEmptyAccountID = errors.New("account id must not be empty")
	// ErrNullTransactionPayload ...
	ErrNullTransactionPayload = errors.New("transaction payload must not be null")
	// ErrNullWalletID ...
	ErrNullWalletID = errors.New("wallet id must not be null")
	// ErrAlreadySigned is returned when attempting to attach a second
	// signature to an envelope.
	ErrAlreadySigned = errors.New("envelope already carries a signature")
	// ErrMissingSignature is returned when marshalling an envelope that has
	// no signature attached yet.
	ErrMissingSignature = errors.New("envelope carries no signature")
)
