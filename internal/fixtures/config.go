package fixtures

import (
	"time"

	"github.com/okian/podium/internal/domain/model"
)

// Config holds configuration for a synthetic season.
type Config struct {
	Dir         string       // Output directory; tournaments go in Dir/<name>
	Tournaments int          // Number of tournaments
	Majors      int          // How many of the last tournaments are majors
	Pool        int          // Distinct competitors across the season
	Entrants    int          // Entries per tournament (capped at Pool)
	Rounds      int          // Rounds per tournament
	Format      model.Format // Single or paired entries
	Seed        uint64       // Seed for reproducible output
	Verbose     bool         // Log every written file
}

// Competitor is a generated entrant with its hidden strength.
type Competitor struct {
	Affiliation string
	Name        string
	Strength    float64 // rating-scale skill used to draw results
}

// Season describes what was written.
type Season struct {
	Tournaments []string
	Majors      []string
	Competitors []Competitor
	ConfigPath  string // JSON config listing tournaments and majors
}

// Stats holds generation statistics.
type Stats struct {
	Tournaments int
	Entries     int
	Rounds      int
	Matches     int
	Byes        int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
