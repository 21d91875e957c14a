package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/fixtures"
	"github.com/okian/podium/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

func main() {
	var (
		dir         = flag.String("dir", "testdata/season", "Output directory")
		tournaments = flag.Int("tournaments", fixtures.DefaultTournaments, "Number of tournaments")
		majors      = flag.Int("majors", fixtures.DefaultMajors, "How many of the last tournaments are majors")
		pool        = flag.Int("pool", fixtures.DefaultPool, "Distinct competitors across the season")
		entrants    = flag.Int("entrants", fixtures.DefaultEntrants, "Entries per tournament")
		rounds      = flag.Int("rounds", fixtures.DefaultRounds, "Rounds per tournament")
		paired      = flag.Bool("paired", false, "Generate partnership entries")
		seed        = flag.Uint64("seed", 1, "Seed for reproducible output")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	format := model.FormatSingle
	if *paired {
		format = model.FormatPaired
	}
	cfg := &fixtures.Config{
		Dir:         *dir,
		Tournaments: *tournaments,
		Majors:      *majors,
		Pool:        *pool,
		Entrants:    *entrants,
		Rounds:      *rounds,
		Format:      format,
		Seed:        *seed,
		Verbose:     *verbose,
	}

	if _, _, err := fixtures.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}
