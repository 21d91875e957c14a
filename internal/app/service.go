// Package service runs a season: it loads tournament tables, feeds their
// rounds through the rating engine in season order and assembles the final
// rankings.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/glicko"
	"github.com/okian/podium/internal/domain/identity"
	"github.com/okian/podium/internal/domain/matchfeed"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// ErrNoStore is returned by Run when the service has no tournament store.
var ErrNoStore = errors.New("service has no tournament store")

// Stats summarizes a run.
type Stats struct {
	Tournaments     int
	Rounds          int
	Matches         int // distinct matches fed to the engine
	WeightedMatches int // matches times their period weight
	Competitors     int
	Skipped         map[matchfeed.SkipReason]int
	Retries         int
	Duration        time.Duration
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Rows        []types.RankingRow
	Stats       Stats
}

// Service orchestrates one full recompute of a season.
type Service struct {
	store       repository.Store
	resolver    *identity.Resolver
	engineOpts  []glicko.Option
	tournaments []string
	majors      map[string]struct{}
	majorWeight int
	concurrency int
	newRunID    func() string
	now         func() time.Time
	logger      logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the tournament table source.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithResolver sets the identity resolver.
func WithResolver(r *identity.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithEngineOptions sets options for the engine created by each run.
func WithEngineOptions(opts ...glicko.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithTournaments sets the tournaments of the season, in processing order.
func WithTournaments(names []string) Option {
	return func(s *Service) {
		s.tournaments = append([]string(nil), names...)
	}
}

// WithMajors marks tournaments whose rounds are replayed weight times.
func WithMajors(names []string, weight int) Option {
	return func(s *Service) {
		s.majors = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.majors[n] = struct{}{}
		}
		if weight > 0 {
			s.majorWeight = weight
		}
	}
}

// WithLoadConcurrency bounds parallel tournament loads.
func WithLoadConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunIDFunc overrides run ID generation.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resolver:    identity.NewResolver(),
		majors:      map[string]struct{}{},
		majorWeight: 2,
		concurrency: runtime.NumCPU(),
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// weightFor returns how many times the rounds of tournament are replayed.
func (s *Service) weightFor(tournament string) int {
	if _, ok := s.majors[tournament]; ok {
		return s.majorWeight
	}
	return 1
}

// Run recomputes the season from scratch. Tournaments are read concurrently
// but applied strictly in configured order; the first error stops the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if s.store == nil {
		return Result{}, ErrNoStore
	}
	started := s.now()
	res := Result{
		RunID: s.newRunID(),
		Stats: Stats{Skipped: make(map[matchfeed.SkipReason]int)},
	}
	log := s.logger.With(logger.String("run_id", res.RunID))
	log.Info(ctx, "season run started", logger.Int("tournaments", len(s.tournaments)))

	tours, err := s.load(ctx)
	if err != nil {
		metrics.RecordError("repository", errorKind(err))
		log.Error(ctx, "loading tournaments failed", logger.Error(err))
		return Result{}, err
	}

	engine := glicko.New(s.engineOpts...)
	competitors, err := s.apply(ctx, log, engine, tours, &res.Stats)
	if err != nil {
		metrics.RecordError(errorComponent(err), errorKind(err))
		log.Error(ctx, "season run failed", logger.Error(err))
		return Result{}, err
	}

	rows, err := ranking.Assemble(competitors, engine)
	if err != nil {
		metrics.RecordError("ranking", errorKind(err))
		return Result{}, fmt.Errorf("assemble rankings: %w", err)
	}

	res.Rows = rows
	res.GeneratedAt = s.now()
	res.Stats.Competitors = engine.Len()
	res.Stats.Duration = res.GeneratedAt.Sub(started)

	metrics.UpdateCompetitors(engine.Len())
	metrics.RecordRun(res.Stats.Duration.Seconds(), res.GeneratedAt.Unix())
	log.Info(ctx, "season run finished",
		logger.Int("competitors", res.Stats.Competitors),
		logger.Int("rounds", res.Stats.Rounds),
		logger.Int("matches", res.Stats.Matches),
		logger.Int("weighted_matches", res.Stats.WeightedMatches),
		logger.Int("retries", res.Stats.Retries),
		logger.Duration("duration", res.Stats.Duration),
	)
	return res, nil
}

// load reads every tournament with bounded parallelism. Results keep the
// configured order regardless of completion order.
func (s *Service) load(ctx context.Context) ([]repository.Tournament, error) {
	tours := make([]repository.Tournament, len(s.tournaments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range s.tournaments {
		g.Go(func() error {
			t, err := s.store.LoadTournament(gctx, name)
			if err != nil {
				return fmt.Errorf("load tournament %q: %w", name, err)
			}
			tours[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tours, nil
}

// apply registers entrants and applies every round of tours as one period
// each. Periods are numbered across the whole season.
func (s *Service) apply(
	ctx context.Context,
	log logger.Logger,
	engine *glicko.Engine,
	tours []repository.Tournament,
	stats *Stats,
) ([]model.Competitor, error) {
	entries := 0
	for _, t := range tours {
		entries += len(t.Entries)
	}
	guard := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(entries))
	var competitors []model.Competitor
	period := 0

	for _, t := range tours {
		tlog := log.With(logger.String("tournament", t.Name))

		idx, err := s.resolver.Index(t.Entries)
		if err != nil {
			return nil, fmt.Errorf("tournament %q entries: %w", t.Name, err)
		}
		added := 0
		for _, c := range idx.Competitors {
			if guard.SeenAndRecord(ctx, c.Identity) {
				continue
			}
			if err := engine.Add(c.Identity); err != nil {
				return nil, fmt.Errorf("tournament %q: %w", t.Name, err)
			}
			competitors = append(competitors, c)
			added++
		}

		weight := s.weightFor(t.Name)
		for _, r := range t.Rounds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			feed, err := matchfeed.Normalize(r.Rows, idx.Codes)
			if err != nil {
				return nil, fmt.Errorf("tournament %q round %q: %w", t.Name, r.Name, err)
			}

			period++
			begin := time.Now()
			rep, err := engine.ApplyPeriod(feed.Matches, period, weight)
			elapsed := time.Since(begin)
			stats.Retries += rep.Retries
			if err != nil {
				return nil, fmt.Errorf("tournament %q round %q: %w", t.Name, r.Name, err)
			}

			metrics.RecordPeriod(rep.Matches, weight, rep.Retries, float64(elapsed.Microseconds())/1000)
			for reason, n := range feed.Skipped {
				stats.Skipped[reason] += n
				metrics.RecordRowsSkipped(string(reason), n)
			}
			stats.Rounds++
			stats.Matches += rep.Matches
			stats.WeightedMatches += rep.Matches * weight

			tlog.Debug(ctx, "round applied",
				logger.String("round", r.Name),
				logger.Int("period", period),
				logger.Int("weight", weight),
				logger.Int("matches", rep.Matches),
				logger.Int("idle", rep.Idle),
				logger.Int("skipped", feed.SkippedTotal()),
			)
		}

		stats.Tournaments++
		metrics.RecordTournament()
		tlog.Info(ctx, "tournament applied",
			logger.Int("entries", len(t.Entries)),
			logger.Int("new_competitors", added),
			logger.Int("rounds", len(t.Rounds)),
			logger.Int("weight", weight),
		)
	}
	return competitors, nil
}

// errorComponent names the package whose sentinel err wraps.
func errorComponent(err error) string {
	switch {
	case errors.Is(err, identity.ErrMalformedEntry):
		return "identity"
	case errors.Is(err, matchfeed.ErrAmbiguousOutcome):
		return "matchfeed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "service"
	default:
		return "glicko"
	}
}

// errorKind gives a low-cardinality label for err.
func errorKind(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrMalformedTable), errors.Is(err, identity.ErrMalformedEntry):
		return "malformed"
	case errors.Is(err, matchfeed.ErrAmbiguousOutcome):
		return "ambiguous_outcome"
	case errors.Is(err, glicko.ErrConvergence):
		return "convergence"
	case errors.Is(err, glicko.ErrUnknownCompetitor):
		return "unknown_competitor"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
