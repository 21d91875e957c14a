package fixtures

import "os"

// ShowHelp prints usage information for the season generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Podium Season Generator
=======================

Writes a synthetic season of tournament tables plus a season.json config that
"podium rank --config" can read directly.

Usage:
  go run ./cmd/gen-season [options]

Options:
  -dir string
        Output directory (default "testdata/season")
  -tournaments int
        Number of tournaments (default 6)
  -majors int
        How many of the last tournaments are majors (default 1)
  -pool int
        Distinct competitors across the season (default 120)
  -entrants int
        Entries per tournament (default 48)
  -rounds int
        Rounds per tournament (default 6)
  -paired
        Generate partnership entries ("A & B")
  -seed uint
        Seed for reproducible output (default 1)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/gen-season -dir /tmp/season -paired
  go run ./cmd/podium rank --config /tmp/season/season.json
`)
}
