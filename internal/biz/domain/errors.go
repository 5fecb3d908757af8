package domain

import (
	"errors"
	"fmt"
)

// ErrMissingRecipient is returned by pgp send when neither an explicit -r
// recipient nor a session recipient export is available.
var ErrMissingRecipient = errors.New("no exported recipient set. Use: export recipient <fpr|uid>")

// ErrCryptoUnavailable is returned when the gpg executable cannot be found.
var ErrCryptoUnavailable = errors.New("gpg not found")

// UsageError represents a malformed or incomplete command invocation. The
// message echoes the command's usage string verbatim.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "Usage: " + e.Usage
}

// NewUsageError creates a usage error for the given usage string
func NewUsageError(usage string) error {
	return &UsageError{Usage: usage}
}

// UnknownCommandError represents an unrecognized first token
type UnknownCommandError struct {
	Token string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s (try: help)", e.Token)
}

// UnknownBlockError represents a decrypt request for a fingerprint with no
// recorded sighting.
type UnknownBlockError struct {
	ID string
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("no captured PGP message with id=%s", e.ID)
}

// TransportError represents a failure from the chat transport collaborator
type TransportError struct {
	Op  string // send, fetch-history, gateway
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("discord %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
