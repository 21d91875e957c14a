package glicko

import "errors"

// Sentinel kinds for rating engine errors.
var (
	ErrAlreadyRegistered = errors.New("competitor already registered")
	ErrUnknownCompetitor = errors.New("unknown competitor")
	ErrConvergence       = errors.New("volatility did not converge")
	ErrPeriodOrder       = errors.New("rating period out of order")
	ErrInvalidWeight     = errors.New("invalid period weight")
	ErrSelfMatch         = errors.New("competitor matched against itself")
)
