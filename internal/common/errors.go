// Package common defines shared constants and sentinel errors used across
// tillpoint components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Read-path errors.

	// ErrNoCachedData is returned when a read was requested while offline
	// (or after a remote failure) and the local store holds no rows for the
	// entity. Not retried automatically.
	ErrNoCachedData = errors.New("no cached data available")

	// Write-path errors.

	// ErrRemoteRejected means the backend was reached and refused the
	// request (validation, auth, conflict). Rejected writes are surfaced
	// immediately and never queued for replay.
	ErrRemoteRejected = errors.New("remote rejected request")

	// ErrRemoteUnreachable means the remote call could not complete at all
	// (no connection, timeout, server fault). Write paths convert this into
	// a queued pending operation; read paths fall back to the cache.
	ErrRemoteUnreachable = errors.New("remote unreachable")

	// ErrLocalStore means the local persistence layer itself failed. Fatal
	// for the call: no durable write could be confirmed.
	ErrLocalStore = errors.New("local store failure")

	// Auth errors.
	ErrUnauthorized          = errors.New("unauthorized")
	ErrTokenExpired          = errors.New("token expired")
	ErrLocalDataNotAvailable = errors.New("local auth data not available")

	// Generic repository / validation errors.
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrOffline is returned by the few operations that have no offline
	// path at all (e.g. staff status toggle).
	ErrOffline = errors.New("operation requires connectivity")
)

// IsDeferrable reports whether a write-path error should be converted into a
// pending operation instead of surfacing to the caller.
func IsDeferrable(err error) bool {
	return errors.Is(err, ErrRemoteUnreachable)
}

// IsFatalWrite reports whether a write-path error must surface unchanged:
// either nothing durable was committed, or the remote explicitly refused.
func IsFatalWrite(err error) bool {
	return errors.Is(err, ErrLocalStore) || errors.Is(err, ErrRemoteRejected)
}
