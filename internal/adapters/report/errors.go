package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrNotFound        = errors.New("competitor not found in rankings")
	ErrMalformedReport = errors.New("malformed rankings file")
)
