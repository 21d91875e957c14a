// Package fixtures generates synthetic seasons of tournament tables for smoke
// tests and benchmarks of the ranking pipeline.
package fixtures

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/logger"
)

// ErrInvalidConfig is returned for configurations that cannot produce a season.
var ErrInvalidConfig = errors.New("invalid fixture config")

// ConfigFile is the name of the season config written next to the tournaments.
const ConfigFile = "season.json"

// seasonConfig mirrors the keys read by internal/config.
type seasonConfig struct {
	Format      string   `json:"format"`
	DataDir     string   `json:"data_dir"`
	Tournaments []string `json:"tournaments"`
	Majors      []string `json:"majors"`
}

// Run generates a season and writes it under cfg.Dir.
func Run(ctx context.Context, cfg *Config) (Season, *Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if err := validate(cfg); err != nil {
		return Season{}, nil, err
	}
	log := logger.Get().Named("fixtures")
	log.Info(ctx, "generating season",
		logger.String("dir", cfg.Dir),
		logger.Int("tournaments", cfg.Tournaments),
		logger.Int("pool", cfg.Pool),
		logger.Int("entrants", cfg.Entrants),
		logger.Int("rounds", cfg.Rounds),
		logger.String("format", cfg.Format.String()),
	)

	g := newGenerator(cfg)
	season := Season{Competitors: g.pool()}

	for i := 0; i < cfg.Tournaments; i++ {
		name := fmt.Sprintf("t%02d", i+1)
		t, err := g.tournament(ctx, name, season.Competitors, stats)
		if err != nil {
			return Season{}, nil, fmt.Errorf("generate %s: %w", name, err)
		}
		if err := g.write(t, season.Competitors); err != nil {
			return Season{}, nil, err
		}
		if cfg.Verbose {
			log.Debug(ctx, "tournament written", logger.String("tournament", name), logger.Int("entries", len(t.entries)))
		}
		season.Tournaments = append(season.Tournaments, name)
		stats.Tournaments++
	}
	season.Majors = append([]string(nil), season.Tournaments[len(season.Tournaments)-cfg.Majors:]...)

	path, err := writeSeasonConfig(cfg, season)
	if err != nil {
		return Season{}, nil, err
	}
	season.ConfigPath = path

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "season generated",
		logger.Int("entries", stats.Entries),
		logger.Int("rounds", stats.Rounds),
		logger.Int("matches", stats.Matches),
		logger.Int("byes", stats.Byes),
		logger.String("config", path),
		logger.Duration("duration", stats.Duration),
	)
	return season, stats, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Dir == "":
		return fmt.Errorf("%w: empty output directory", ErrInvalidConfig)
	case cfg.Tournaments < 1:
		return fmt.Errorf("%w: need at least one tournament", ErrInvalidConfig)
	case cfg.Majors < 0 || cfg.Majors > cfg.Tournaments:
		return fmt.Errorf("%w: majors must be within 0..%d", ErrInvalidConfig, cfg.Tournaments)
	case cfg.Pool < 2 || cfg.Entrants < 2:
		return fmt.Errorf("%w: pool and entrants must be at least 2", ErrInvalidConfig)
	case cfg.Pool > len(schools)*len(firstNames)*len(lastNames):
		return fmt.Errorf("%w: pool of %d exceeds the name space", ErrInvalidConfig, cfg.Pool)
	case cfg.Rounds < 0:
		return fmt.Errorf("%w: negative rounds", ErrInvalidConfig)
	}
	return nil
}

// write stores one tournament as entries.csv plus one file per round.
func (g *generator) write(t tournament, pool []Competitor) error {
	dir := filepath.Join(g.cfg.Dir, t.name)
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	records := [][]string{{"Institution", "Entry", "Code"}}
	for _, e := range t.entries {
		c := pool[e.competitor]
		records = append(records, []string{c.Affiliation, g.listed(c.Name), e.code})
	}
	if err := writeCSV(filepath.Join(dir, "entries.csv"), records); err != nil {
		return err
	}

	for i, rows := range t.rounds {
		records := [][]string{{"Aff", "Neg", "Win"}}
		for _, r := range rows {
			records = append(records, []string{r.aff, r.neg, r.win})
		}
		if err := writeCSV(filepath.Join(dir, fmt.Sprintf("round%02d.csv", i+1)), records); err != nil {
			return err
		}
	}
	return nil
}

// listed returns the name as one tournament lists it. Paired entries may
// list partners in either order.
func (g *generator) listed(name string) string {
	if g.cfg.Format != model.FormatPaired || g.rng.IntN(2) == 0 {
		return name
	}
	parts := strings.Split(name, " & ")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " & ")
}

func writeCSV(path string, records [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func writeSeasonConfig(cfg *Config, season Season) (string, error) {
	data, err := json.MarshalIndent(seasonConfig{
		Format:      cfg.Format.String(),
		DataDir:     cfg.Dir,
		Tournaments: season.Tournaments,
		Majors:      season.Majors,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode season config: %w", err)
	}
	path := filepath.Join(cfg.Dir, ConfigFile)
	if err := os.WriteFile(path, append(data, '\n'), filePermission); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
