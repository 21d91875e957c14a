// Package repository reads tournament tables from the season data directory.
package repository

import (
	"context"

	"github.com/okian/podium/internal/domain/model"
)

// Round is one round file of a tournament.
type Round struct {
	Name string
	Rows []model.RoundRow
}

// Tournament bundles everything a tournament contributes to a season.
type Tournament struct {
	Name    string
	Entries []model.Registration
	Rounds  []Round // sorted by Name
}

// Store provides read access to tournament tables.
type Store interface {
	// LoadEntries returns the entry table of a tournament.
	// Returns ErrNotFound if the tournament or its entry table is missing.
	LoadEntries(ctx context.Context, tournament string) ([]model.Registration, error)

	// ListRounds returns round names in processing order.
	ListRounds(ctx context.Context, tournament string) ([]string, error)

	// LoadRound returns the rows of one round.
	LoadRound(ctx context.Context, tournament, round string) ([]model.RoundRow, error)

	// LoadTournament reads the entry table and every round.
	LoadTournament(ctx context.Context, tournament string) (Tournament, error)
}
