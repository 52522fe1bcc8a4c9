package geolite

import (
	"errors"
	"os"
)

var (
	// ErrInvalidAddress - input is not a parsable address of the expected family
	ErrInvalidAddress = errors.New("geolite: invalid address")
	// ErrMissingData - no range file is available for a family
	ErrMissingData = errors.New("geolite: missing data file")
	// ErrCorruptData - a data file exists but could not be read or holds no records
	ErrCorruptData = errors.New("geolite: corrupt data file")
	// ErrAlreadyWatching - StartWatching was called twice
	ErrAlreadyWatching = errors.New("geolite: already watching data updates")
	// ErrClosed - the client has been closed
	ErrClosed = errors.New("geolite: client closed")

	// ErrNotFound is returned by a Source when a file does not exist.
	// Sources should return an error satisfying errors.Is(err, ErrNotFound).
	ErrNotFound = os.ErrNotExist
)
