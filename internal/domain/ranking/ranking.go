// Package ranking turns final engine state into an ordered leaderboard.
package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// StateSource is the read side of the rating engine.
type StateSource interface {
	Get(id string) (model.RatingState, error)
	MatchCount(id string) (int, error)
}

// Assemble ranks competitors by adjusted rating (rating - 2*deviation),
// highest first. Equal adjusted ratings are ordered by identity so output
// never depends on input order. Repeated identities are listed once, with the
// metadata of their first occurrence.
func Assemble(competitors []model.Competitor, src StateSource) ([]types.RankingRow, error) {
	rows := make([]types.RankingRow, 0, len(competitors))
	seen := make(map[string]struct{}, len(competitors))

	for _, c := range competitors {
		if _, dup := seen[c.Identity]; dup {
			continue
		}
		seen[c.Identity] = struct{}{}

		st, err := src.Get(c.Identity)
		if err != nil {
			return nil, fmt.Errorf("ranking %q: %w", c.DisplayName, err)
		}
		matches, err := src.MatchCount(c.Identity)
		if err != nil {
			return nil, fmt.Errorf("ranking %q: %w", c.DisplayName, err)
		}

		rows = append(rows, types.RankingRow{
			Identity:       c.Identity,
			DisplayName:    c.DisplayName,
			Affiliation:    c.Affiliation,
			Rating:         st.Rating,
			Deviation:      st.Deviation,
			Volatility:     st.Volatility,
			AdjustedRating: st.Adjusted(),
			MatchCount:     matches,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AdjustedRating != rows[j].AdjustedRating {
			return rows[i].AdjustedRating > rows[j].AdjustedRating
		}
		return rows[i].Identity < rows[j].Identity
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
