package fixtures

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/model"
)

var schools = []string{ //nolint:gochecknoglobals // fixed name pool
	"Greenhill", "Harvard-Westlake", "Lexington", "Strake Jesuit", "Peninsula",
	"Edina", "Durham Academy", "Loyola", "Monta Vista", "Stuyvesant",
}

var firstNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"Avery", "Blake", "Casey", "Devon", "Emery", "Finley", "Harper", "Jordan",
	"Kai", "Logan", "Morgan", "Parker", "Quinn", "Riley", "Sage", "Taylor",
}

var lastNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"Alvarez", "Brooks", "Chen", "Diaz", "Evans", "Fischer", "Gupta", "Hughes",
	"Ito", "Johnson", "Khan", "Lopez", "Moreau", "Nguyen", "Okafor", "Patel",
}

// entry is one registration line of a tournament.
type entry struct {
	competitor int
	code       string
}

// roundRow is one pairing of a round.
type roundRow struct {
	aff, neg, win string
}

// tournament is a generated tournament ready to be written.
type tournament struct {
	name    string
	entries []entry
	rounds  [][]roundRow
}

// generator draws everything from one seeded source so output is reproducible.
type generator struct {
	cfg *Config
	rng *rand.Rand
	src *rand.ChaCha8
}

func newGenerator(cfg *Config) *generator {
	var seed [32]byte
	for i := range 4 {
		for b := range 8 {
			seed[i*8+b] = byte(cfg.Seed >> (8 * b))
		}
	}
	src := rand.NewChaCha8(seed)
	return &generator{cfg: cfg, rng: rand.New(src), src: src}
}

// pool creates the season's competitors. Entries are unique within a school
// regardless of partner order.
func (g *generator) pool() []Competitor {
	out := make([]Competitor, 0, g.cfg.Pool)
	used := make(map[string]struct{}, g.cfg.Pool)
	for len(out) < g.cfg.Pool {
		school := schools[g.rng.IntN(len(schools))]
		name, key := g.person(), ""
		if g.cfg.Format == model.FormatPaired {
			partner := g.person()
			key = school + "|" + min(name, partner) + "|" + max(name, partner)
			name += " & " + partner
		} else {
			key = school + "|" + name
		}
		if _, dup := used[key]; dup {
			continue
		}
		used[key] = struct{}{}
		out = append(out, Competitor{
			Affiliation: school,
			Name:        name,
			Strength:    strengthMean + g.rng.NormFloat64()*strengthSpread,
		})
	}
	return out
}

func (g *generator) person() string {
	return firstNames[g.rng.IntN(len(firstNames))] + " " + lastNames[g.rng.IntN(len(lastNames))]
}

// code returns a short tournament-local entry code.
func (g *generator) code() (string, error) {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return "", fmt.Errorf("entry code: %w", err)
	}
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:codeLength]), nil
}

// tournament draws entrants and plays every round.
func (g *generator) tournament(ctx context.Context, name string, pool []Competitor, stats *Stats) (tournament, error) {
	n := min(g.cfg.Entrants, len(pool))
	picks := g.rng.Perm(len(pool))[:n]

	t := tournament{name: name, entries: make([]entry, 0, n)}
	for _, p := range picks {
		code, err := g.code()
		if err != nil {
			return tournament{}, err
		}
		t.entries = append(t.entries, entry{competitor: p, code: code})
	}

	for r := 0; r < g.cfg.Rounds; r++ {
		if err := ctx.Err(); err != nil {
			return tournament{}, err
		}
		order := g.rng.Perm(len(t.entries))
		rows := make([]roundRow, 0, len(order)/2+1)
		for i := 0; i+1 < len(order); i += 2 {
			aff, neg := t.entries[order[i]], t.entries[order[i+1]]
			win := "Neg"
			if g.rng.Float64() < winChance(pool[aff.competitor].Strength, pool[neg.competitor].Strength) {
				win = "Aff"
			}
			rows = append(rows, roundRow{aff: aff.code, neg: neg.code, win: win})
			stats.Matches++
		}
		if len(order)%2 == 1 {
			rows = append(rows, roundRow{aff: t.entries[order[len(order)-1]].code, neg: "BYE", win: "Aff"})
			stats.Byes++
		}
		t.rounds = append(t.rounds, rows)
		stats.Rounds++
	}
	stats.Entries += len(t.entries)
	return t, nil
}

// winChance is the logistic chance that strength a beats strength b.
func winChance(a, b float64) float64 {
	return 1 / (1 + math.Exp(-(a-b)/glickoScale))
}
