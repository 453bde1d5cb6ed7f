package persistence

import "errors"

var (
	// ErrNoSnapshot is returned when the backend holds no stored snapshot.
	ErrNoSnapshot = errors.New("persistence: no snapshot stored")
	// ErrUnknownBackend is returned for unrecognized storage backend names.
	ErrUnknownBackend = errors.New("persistence: unknown storage backend")
)
