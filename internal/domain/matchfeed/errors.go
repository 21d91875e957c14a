package matchfeed

import "errors"

// Sentinel kinds for round normalization errors.
var (
	ErrAmbiguousOutcome = errors.New("ambiguous outcome")
)
