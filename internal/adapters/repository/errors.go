package repository

import "errors"

// Sentinel kinds for tournament table errors.
var (
	ErrNotFound       = errors.New("tournament table not found")
	ErrMalformedTable = errors.New("malformed tournament table")
)
