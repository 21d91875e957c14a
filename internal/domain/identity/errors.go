package identity

import "errors"

// Sentinel kinds for identity resolution errors.
var (
	ErrMalformedEntry = errors.New("malformed entry")
)
