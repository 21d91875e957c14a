// Package types contains common types used across the application
package types

// RankingRow represents one leaderboard line of a finished run.
type RankingRow struct {
	Rank           int     `json:"rank"`
	Identity       string  `json:"hash"`
	DisplayName    string  `json:"name"`
	Affiliation    string  `json:"school"`
	Rating         float64 `json:"rating"`
	Deviation      float64 `json:"deviation"`
	Volatility     float64 `json:"volatility"`
	AdjustedRating float64 `json:"adjusted_rating"`
	MatchCount     int     `json:"matches"`
}
