package service

import (
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/internal/domain/glicko"
	"github.com/okian/podium/internal/domain/identity"
)

// OptionsFromConfig translates a validated Config into Service options,
// including a CSV store rooted at the configured tournament directory.
func OptionsFromConfig(cfg *config.Config) ([]Option, error) {
	format, err := cfg.ParsedFormat()
	if err != nil {
		return nil, err
	}
	return []Option{
		WithStore(repository.NewCSVStore(cfg.TournamentRoot())),
		WithResolver(identity.NewResolver(
			identity.WithFormat(format),
			identity.WithMultiTeamNames(cfg.MultiTeamDebaters),
			identity.WithSeparator(cfg.NameSeparator),
		)),
		WithEngineOptions(
			glicko.WithTau(cfg.Tau),
			glicko.WithDefaults(cfg.InitialRating, cfg.InitialDeviation, cfg.InitialVolatility),
			glicko.WithMaxDeviation(cfg.MaxDeviation),
			glicko.WithTolerance(cfg.ConvergenceTolerance),
			glicko.WithRelaxedTolerance(cfg.RelaxedTolerance),
			glicko.WithMaxIterations(cfg.MaxIterations),
		),
		WithTournaments(cfg.Tournaments),
		WithMajors(cfg.Majors, cfg.MajorWeight),
		WithLoadConcurrency(cfg.LoadConcurrency),
	}, nil
}
