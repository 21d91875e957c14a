// Package config defines the ranking run configuration and how it is loaded.
//
// Conventions:
// - Fields carry koanf tags matching the flat file and env keys.
// - New() returns a Config holding every default; Load layers sources on top.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile string `koanf:"log_file"`

	// Format selects identity rules: "single" or "paired".
	Format string `koanf:"format"`

	// DataDir is the root holding one directory per tournament.
	DataDir string `koanf:"data_dir"`

	// FormatDir optionally nests tournaments under DataDir/FormatDir, e.g. "cpd".
	FormatDir string `koanf:"format_dir"`

	// OutputDir and OutputPrefix place the written reports.
	OutputDir    string `koanf:"output_dir"`
	OutputPrefix string `koanf:"output_prefix"`

	// Tournaments lists tournament directories in season order.
	Tournaments []string `koanf:"tournaments"`

	// Majors is the subset of Tournaments whose rounds count MajorWeight times.
	Majors      []string `koanf:"majors"`
	MajorWeight int      `koanf:"major_weight"`

	// MultiTeamDebaters are names merged across affiliations (single format only).
	MultiTeamDebaters []string `koanf:"multi_team_debaters"`

	// NameSeparator splits partner names in paired entries.
	NameSeparator string `koanf:"name_separator"`

	// Glicko-2 parameters on the public scale.
	Tau                  float64 `koanf:"tau"`
	InitialRating        float64 `koanf:"initial_rating"`
	InitialDeviation     float64 `koanf:"initial_deviation"`
	InitialVolatility    float64 `koanf:"initial_volatility"`
	MaxDeviation         float64 `koanf:"max_deviation"`
	ConvergenceTolerance float64 `koanf:"convergence_tolerance"`
	RelaxedTolerance     float64 `koanf:"relaxed_tolerance"`
	MaxIterations        int     `koanf:"max_iterations"`

	// LoadConcurrency bounds parallel tournament reads.
	LoadConcurrency int `koanf:"load_concurrency"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Format:               model.FormatSingle.String(),
		DataDir:              "tournaments",
		OutputDir:            ".",
		MajorWeight:          2,
		NameSeparator:        "&",
		Tau:                  0.5,
		InitialRating:        1500,
		InitialDeviation:     350,
		InitialVolatility:    0.06,
		MaxDeviation:         350,
		ConvergenceTolerance: 1e-6,
		RelaxedTolerance:     1e-4,
		MaxIterations:        100,
		LoadConcurrency:      runtime.NumCPU(),
	}
}

// ParsedFormat returns Format as a model.Format.
func (c *Config) ParsedFormat() (model.Format, error) {
	f, err := model.ParseFormat(c.Format)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return f, nil
}

// TournamentRoot returns the directory holding the tournament directories.
func (c *Config) TournamentRoot() string {
	if c.FormatDir == "" {
		return c.DataDir
	}
	return filepath.Join(c.DataDir, c.FormatDir)
}

// IsMajor reports whether tournament is listed in Majors.
func (c *Config) IsMajor(tournament string) bool {
	return slices.Contains(c.Majors, tournament)
}

// WeightFor returns the replay weight of tournament's rounds.
func (c *Config) WeightFor(tournament string) int {
	if c.IsMajor(tournament) {
		return c.MajorWeight
	}
	return 1
}

// Validate checks the configuration for values the run cannot work with.
func (c *Config) Validate() error {
	if _, err := c.ParsedFormat(); err != nil {
		return err
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if len(c.Tournaments) == 0 {
		return fmt.Errorf("%w: no tournaments configured", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Tournaments))
	for _, t := range c.Tournaments {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: empty tournament name", ErrInvalidConfig)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: tournament %q listed twice", ErrInvalidConfig, t)
		}
		seen[t] = struct{}{}
	}
	for _, m := range c.Majors {
		if _, ok := seen[m]; !ok {
			return fmt.Errorf("%w: major %q is not a configured tournament", ErrInvalidConfig, m)
		}
	}
	if c.MajorWeight < 1 {
		return fmt.Errorf("%w: major_weight must be >= 1, got %d", ErrInvalidConfig, c.MajorWeight)
	}
	if c.NameSeparator == "" {
		return fmt.Errorf("%w: name_separator must not be empty", ErrInvalidConfig)
	}
	if c.Tau <= 0 || c.InitialDeviation <= 0 || c.InitialVolatility <= 0 {
		return fmt.Errorf("%w: tau, initial_deviation and initial_volatility must be positive", ErrInvalidConfig)
	}
	if c.MaxDeviation < c.InitialDeviation {
		return fmt.Errorf("%w: max_deviation %.2f below initial_deviation %.2f",
			ErrInvalidConfig, c.MaxDeviation, c.InitialDeviation)
	}
	if c.ConvergenceTolerance <= 0 || c.RelaxedTolerance < c.ConvergenceTolerance {
		return fmt.Errorf("%w: relaxed_tolerance must be >= convergence_tolerance > 0", ErrInvalidConfig)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be >= 1", ErrInvalidConfig)
	}
	if c.LoadConcurrency < 1 {
		return fmt.Errorf("%w: load_concurrency must be >= 1", ErrInvalidConfig)
	}
	return nil
}
