package conflict

import "errors"

// Sentinel errors for resolution failures.
var (
	// ErrInternal indicates an internal consistency failure: the engine was
	// configured or driven incorrectly. It is never a user-facing conflict.
	ErrInternal = errors.New("internal consistency failure")

	// ErrNoDecision indicates that every resolver in a chain declined.
	ErrNoDecision = &internalError{msg: "no resolver produced a decision"}

	// ErrRestartLimit indicates that a conflict kept requesting restarts past
	// the configured bound.
	ErrRestartLimit = &internalError{msg: "restart limit exceeded"}

	// ErrUnresolvable indicates a user-facing conflict that no resolver could
	// settle.
	ErrUnresolvable = errors.New("unresolvable conflict")
)

// internalError is a sentinel that also matches ErrInternal.
type internalError struct {
	msg string
}

func (e *internalError) Error() string { return e.msg }

func (e *internalError) Unwrap() error { return ErrInternal }
