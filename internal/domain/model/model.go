// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Format selects the identity merge rules for a circuit.
type Format int

const (
	// FormatSingle is for one-debater entries (e.g. Lincoln-Douglas).
	FormatSingle Format = iota
	// FormatPaired is for partnership entries whose name field lists several debaters.
	FormatPaired
)

// String returns the config spelling of the format.
func (f Format) String() string {
	switch f {
	case FormatSingle:
		return "single"
	case FormatPaired:
		return "paired"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat accepts "single" or "paired" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return FormatSingle, nil
	case "paired":
		return FormatPaired, nil
	default:
		return 0, fmt.Errorf("unknown format %q", s)
	}
}

// Outcome names which side of a round row won.
type Outcome int

const (
	// OutcomeFirst means the first code column (affirmative) won.
	OutcomeFirst Outcome = iota + 1
	// OutcomeSecond means the second code column (negative) won.
	OutcomeSecond
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeFirst:
		return "aff"
	case OutcomeSecond:
		return "neg"
	default:
		return "unknown"
	}
}

// Registration is one row of a tournament entry table.
type Registration struct {
	Affiliation string // school or institution
	Name        string // raw entry name, may list partners
	Code        string // tournament-local entry code
}

// RoundRow is one raw row of a round table.
type RoundRow struct {
	First   string // first (aff) entry code
	Second  string // second (neg) entry code
	Outcome string // free-text winner column
}

// Competitor is a rateable participant identified by a stable key.
type Competitor struct {
	Identity    string
	DisplayName string
	Affiliation string
}

// Match is one decided round between two known competitors.
type Match struct {
	Winner string
	Loser  string
}

// RatingState is a Glicko-2 estimate on the public (1500-centred) scale.
type RatingState struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Adjusted returns the conservative estimate rating - 2*deviation.
func (s RatingState) Adjusted() float64 {
	return s.Rating - 2*s.Deviation
}
