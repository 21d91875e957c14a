// Package matchfeed turns raw round tables into decided matches between
// resolved identities.
package matchfeed

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/podium/internal/domain/model"
)

// Outcome and bye markers, compared after case folding.
const (
	firstMarker  = "aff"
	secondMarker = "neg"
	byeMarker    = "bye"
)

// SkipReason explains why a row did not produce a match.
type SkipReason string

// Skip reasons. Rows skipped for these reasons are expected in real data and
// are counted, not reported as errors.
const (
	SkipBye       SkipReason = "bye"
	SkipMissing   SkipReason = "missing"
	SkipUnmapped  SkipReason = "unmapped"
	SkipSelfMatch SkipReason = "self_match"
)

// Feed is the normalized content of one round table.
type Feed struct {
	Matches []model.Match
	Skipped map[SkipReason]int
}

// SkippedTotal returns the number of dropped rows.
func (f Feed) SkippedTotal() int {
	n := 0
	for _, c := range f.Skipped {
		n += c
	}
	return n
}

// fold is safe for concurrent use; cases.Caser is not, so a fresh one is
// created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// ParseOutcome resolves the winner column of a round row.
func ParseOutcome(text string) (model.Outcome, error) {
	folded := fold(text)
	first := strings.Contains(folded, firstMarker)
	second := strings.Contains(folded, secondMarker)

	switch {
	case first && !second:
		return model.OutcomeFirst, nil
	case second && !first:
		return model.OutcomeSecond, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrAmbiguousOutcome, text)
	}
}

// Normalize maps each row's codes through codes and resolves its winner.
// Byes, blank or unknown codes and self-pairings are dropped. A row whose
// outcome names neither or both sides fails the whole table.
func Normalize(rows []model.RoundRow, codes map[string]string) (Feed, error) {
	feed := Feed{
		Matches: make([]model.Match, 0, len(rows)),
		Skipped: make(map[SkipReason]int),
	}

	for i, row := range rows {
		first := strings.TrimSpace(row.First)
		second := strings.TrimSpace(row.Second)

		if isBye(first) || isBye(second) {
			feed.Skipped[SkipBye]++
			continue
		}
		if first == "" || second == "" {
			feed.Skipped[SkipMissing]++
			continue
		}

		firstID, okFirst := codes[first]
		secondID, okSecond := codes[second]
		if !okFirst || !okSecond || firstID == "" || secondID == "" {
			feed.Skipped[SkipUnmapped]++
			continue
		}
		if firstID == secondID {
			feed.Skipped[SkipSelfMatch]++
			continue
		}

		outcome, err := ParseOutcome(row.Outcome)
		if err != nil {
			return Feed{}, fmt.Errorf("row %d (%s vs %s): %w", i+1, first, second, err)
		}

		if outcome == model.OutcomeFirst {
			feed.Matches = append(feed.Matches, model.Match{Winner: firstID, Loser: secondID})
		} else {
			feed.Matches = append(feed.Matches, model.Match{Winner: secondID, Loser: firstID})
		}
	}
	return feed, nil
}

func isBye(code string) bool {
	return strings.Contains(fold(code), byeMarker)
}
