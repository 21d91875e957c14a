// Package glicko implements the season rating engine on top of the Glicko-2
// system (https://www.glicko.net/glicko/glicko2.pdf).
//
// Matches are applied in rating periods. Every match of a period is evaluated
// against the ratings as they stood when the period began, so a competitor
// with several rounds in one period moves once, using all of them.
package glicko

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/okian/podium/internal/domain/model"
)

// Default engine configuration constants.
const (
	defaultRating           = 1500.0
	defaultDeviation        = 350.0
	defaultVolatility       = 0.06
	defaultTau              = 0.5
	defaultTolerance        = 1e-6
	defaultRelaxedTolerance = 1e-4
	defaultMaxIterations    = 100
)

// entry is the engine-owned record of one competitor.
type entry struct {
	state   state
	matches int
}

// PeriodReport summarizes one ApplyPeriod call.
type PeriodReport struct {
	Period       int
	Weight       int
	Matches      int // matches per repetition
	Participants int
	Idle         int
	Retries      int // volatility solves that needed the relaxed tolerance
}

// Engine owns the rating state of every registered competitor. It is not safe
// for concurrent use: periods must be applied one at a time, in order.
type Engine struct {
	tau              float64
	defaults         state
	maxPhi           float64
	tolerance        float64
	relaxedTolerance float64
	maxIterations    int

	entries    map[string]*entry
	lastPeriod int
	started    bool
}

// New creates an Engine with the paper's defaults (1500/350/0.06, tau 0.5).
func New(opts ...Option) *Engine {
	e := &Engine{
		tau: defaultTau,
		defaults: state{
			mu:    toMu(defaultRating),
			phi:   toPhi(defaultDeviation),
			sigma: defaultVolatility,
		},
		maxPhi:           toPhi(defaultDeviation),
		tolerance:        defaultTolerance,
		relaxedTolerance: defaultRelaxedTolerance,
		maxIterations:    defaultMaxIterations,
		entries:          make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.defaults.phi > e.maxPhi {
		e.maxPhi = e.defaults.phi
	}
	return e
}

// Add registers a competitor with the default state. Adding a known identity
// fails with ErrAlreadyRegistered and leaves its state untouched.
func (e *Engine) Add(id string) error {
	if _, ok := e.entries[id]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	e.entries[id] = &entry{state: e.defaults}
	return nil
}

// Has reports whether id is registered.
func (e *Engine) Has(id string) bool {
	_, ok := e.entries[id]
	return ok
}

// Len returns the number of registered competitors.
func (e *Engine) Len() int { return len(e.entries) }

// Identities returns all registered identities in ascending order.
func (e *Engine) Identities() []string {
	ids := make([]string, 0, len(e.entries))
	for id := range e.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns a snapshot of a competitor's public-scale rating.
func (e *Engine) Get(id string) (model.RatingState, error) {
	en, ok := e.entries[id]
	if !ok {
		return model.RatingState{}, fmt.Errorf("%w: %s", ErrUnknownCompetitor, id)
	}
	return en.state.public(), nil
}

// MatchCount returns how many matches a competitor has played. Weighted
// replays are not counted twice.
func (e *Engine) MatchCount(id string) (int, error) {
	en, ok := e.entries[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCompetitor, id)
	}
	return en.matches, nil
}

// ApplyPeriod applies one rating period.
//
// period must be greater than the previous call's. Competitors without a
// match have their deviation inflated once per elapsed period, up to the
// configured maximum. The batch is then replayed weight times; each
// replay is a full simultaneous update. Nothing is committed unless every
// replay succeeds.
func (e *Engine) ApplyPeriod(matches []model.Match, period, weight int) (PeriodReport, error) {
	report := PeriodReport{Period: period, Weight: weight, Matches: len(matches)}

	if weight < 1 {
		return report, fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}
	elapsed := 1
	if e.started {
		if period <= e.lastPeriod {
			return report, fmt.Errorf("%w: period %d after %d", ErrPeriodOrder, period, e.lastPeriod)
		}
		elapsed = period - e.lastPeriod
	}

	games := make(map[string]int)
	for _, m := range matches {
		if m.Winner == m.Loser {
			return report, fmt.Errorf("%w: %s", ErrSelfMatch, m.Winner)
		}
		for _, id := range [...]string{m.Winner, m.Loser} {
			if _, ok := e.entries[id]; !ok {
				return report, fmt.Errorf("%w: %s", ErrUnknownCompetitor, id)
			}
			games[id]++
		}
	}

	// Work on a copy so a failed solve leaves the engine untouched.
	work := make(map[string]state, len(e.entries))
	for id, en := range e.entries {
		s := en.state
		steps := elapsed
		if _, plays := games[id]; plays {
			steps--
		}
		for i := 0; i < steps; i++ {
			s = e.inflate(s)
		}
		work[id] = s
	}

	for rep := 0; rep < weight; rep++ {
		retries, err := e.replay(work, matches)
		report.Retries += retries
		if err != nil {
			return report, fmt.Errorf("period %d: %w", period, err)
		}
	}

	for id, s := range work {
		e.entries[id].state = s
	}
	for id, n := range games {
		e.entries[id].matches += n
	}
	e.lastPeriod = period
	e.started = true

	report.Participants = len(games)
	report.Idle = len(e.entries) - len(games)
	return report, nil
}

// replay runs one simultaneous update of matches over work, in place.
func (e *Engine) replay(work map[string]state, matches []model.Match) (int, error) {
	results := make(map[string][]result)
	for _, m := range matches {
		results[m.Winner] = append(results[m.Winner], result{opponent: work[m.Loser], score: 1})
		results[m.Loser] = append(results[m.Loser], result{opponent: work[m.Winner], score: 0})
	}

	// Deterministic order keeps error reporting stable.
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	retries := 0
	next := make(map[string]state, len(ids))
	for _, id := range ids {
		s, retried, err := e.update(work[id], results[id])
		if retried {
			retries++
		}
		if err != nil {
			return retries, fmt.Errorf("%s: %w", id, err)
		}
		next[id] = s
	}
	for id, s := range next {
		work[id] = s
	}
	return retries, nil
}

// update is steps 3 to 7 of the Glicko-2 algorithm for one competitor.
func (e *Engine) update(s state, results []result) (state, bool, error) {
	var invV, sum float64
	for _, r := range results {
		gj := g(r.opponent.phi)
		ej := expected(s.mu, r.opponent.mu, gj)
		invV += pow2(gj) * ej * (1 - ej)
		sum += gj * (r.score - ej)
	}
	if invV <= 0 || math.IsNaN(invV) {
		// Every expected score saturated at 0 or 1: the games carry no information.
		return e.inflate(s), false, nil
	}
	v := 1 / invV
	delta := v * sum

	retried := false
	sigma, err := volatility(s.sigma, s.phi, v, delta, e.tau, e.tolerance, e.maxIterations)
	if errors.Is(err, errNotConverged) {
		retried = true
		sigma, err = volatility(s.sigma, s.phi, v, delta, e.tau, e.relaxedTolerance, e.maxIterations)
	}
	if err != nil {
		return state{}, retried, fmt.Errorf("%w: %v", ErrConvergence, err)
	}

	phiStar := math.Sqrt(pow2(s.phi) + pow2(sigma))
	phi := 1 / math.Sqrt(1/pow2(phiStar)+1/v)
	phi = math.Min(phi, e.maxPhi)

	return state{
		mu:    s.mu + pow2(phi)*sum,
		phi:   phi,
		sigma: sigma,
	}, retried, nil
}

// inflate is the no-games step: deviation grows by the volatility.
func (e *Engine) inflate(s state) state {
	s.phi = math.Min(math.Sqrt(pow2(s.phi)+pow2(s.sigma)), e.maxPhi)
	return s
}
