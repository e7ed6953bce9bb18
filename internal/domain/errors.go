package domain

import "errors"

var (
	// ErrStoreUnavailable means the backing key-value service could not be
	// read or written.
	ErrStoreUnavailable = errors.New("report store unavailable")

	// ErrNotFound means a forward geocode matched nothing.
	ErrNotFound = errors.New("no matching location found")

	// ErrResolverUnavailable means the geocoding provider failed or timed out.
	ErrResolverUnavailable = errors.New("geocoding provider unavailable")
)

// ValidationError reports the first incomplete field of user input.
// Message is meant to be shown next to the field as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
