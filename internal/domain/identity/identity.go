package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

const defaultSeparator = "&"

// Resolver maps registration rows to stable identities. It holds no mutable
// state after construction and is safe for concurrent use.
type Resolver struct {
	format    model.Format
	multiTeam map[string]struct{}
	separator string
}

// NewResolver creates a Resolver for single-competitor formats unless
// configured otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		format:    model.FormatSingle,
		multiTeam: map[string]struct{}{},
		separator: defaultSeparator,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the hex SHA-256 identity of a registration.
//
// Single format hashes affiliation+name, or the name alone for configured
// multi-team debaters. Paired format sorts the trimmed partner names first so
// listing order does not matter.
func (r *Resolver) Resolve(reg model.Registration) (string, error) {
	if strings.TrimSpace(reg.Affiliation) == "" {
		return "", fmt.Errorf("%w: missing affiliation for entry %q", ErrMalformedEntry, reg.Name)
	}
	if strings.TrimSpace(reg.Name) == "" {
		return "", fmt.Errorf("%w: missing name for entry at %q", ErrMalformedEntry, reg.Affiliation)
	}

	var combined string
	switch r.format {
	case model.FormatPaired:
		combined = reg.Affiliation + r.partnerKey(reg.Name)
	default:
		if _, ok := r.multiTeam[reg.Name]; ok {
			combined = reg.Name
		} else {
			combined = reg.Affiliation + reg.Name
		}
	}

	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:]), nil
}

// partnerKey splits, trims and sorts partner names. Names are concatenated
// without a joiner so keys match those produced by earlier seasons.
func (r *Resolver) partnerKey(name string) string {
	parts := strings.Split(name, r.separator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	sort.Strings(parts)
	return strings.Join(parts, "")
}

// Index is the per-tournament view of its entry table.
type Index struct {
	// Codes maps tournament-local entry codes to identities.
	Codes map[string]string
	// Competitors lists each distinct identity once, in entry order.
	Competitors []model.Competitor
}

// Index resolves every registration of one tournament. The first failing row
// aborts the whole table.
func (r *Resolver) Index(regs []model.Registration) (*Index, error) {
	idx := &Index{
		Codes:       make(map[string]string, len(regs)),
		Competitors: make([]model.Competitor, 0, len(regs)),
	}
	seen := make(map[string]struct{}, len(regs))

	for i, reg := range regs {
		code := strings.TrimSpace(reg.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: row %d has no entry code", ErrMalformedEntry, i+1)
		}

		id, err := r.Resolve(reg)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		if prev, ok := idx.Codes[code]; ok && prev != id {
			return nil, fmt.Errorf("%w: code %q is registered to two different entries", ErrMalformedEntry, code)
		}
		idx.Codes[code] = id

		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		idx.Competitors = append(idx.Competitors, model.Competitor{
			Identity:    id,
			DisplayName: reg.Name,
			Affiliation: reg.Affiliation,
		})
	}
	return idx, nil
}
