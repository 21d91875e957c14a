package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/adapters/report"
	"github.com/okian/podium/internal/domain/glicko"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

const (
	defaultRankingsFile = "full_rankings.csv"
	ruleWidth           = 60
)

func newSimulateCmd() *cobra.Command {
	var rankings string
	cmd := &cobra.Command{
		Use:   "simulate <name1> <name2>",
		Short: "Predict a single round between two ranked competitors",
		Long: `Looks both competitors up by name in a full rankings table and prints
their ratings and Glicko-2 win probabilities against each other.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.OutOrStdout(), rankings, args[0], args[1])
		},
	}
	cmd.Flags().StringVarP(&rankings, "rankings", "r", defaultRankingsFile, "full rankings CSV written by rank")
	return cmd
}

// runSimulate prints the matchup card for first against second.
func runSimulate(out io.Writer, rankingsPath, first, second string) error {
	rows, err := report.ReadFull(rankingsPath)
	if err != nil {
		return err
	}
	a, err := report.FindByName(rows, first)
	if err != nil {
		return err
	}
	b, err := report.FindByName(rows, second)
	if err != nil {
		return err
	}

	pa := glicko.WinProbability(stateOf(a), stateOf(b))
	pb := 1 - pa

	heading := color.New(color.Bold)
	fav, dog := color.New(color.FgGreen, color.Bold), color.New(color.FgRed)
	paint := func(p float64) *color.Color {
		if p >= 0.5 {
			return fav
		}
		return dog
	}

	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(&sb, "\n%s\n%s\n%s\n", rule, heading.Sprint("MATCH SIMULATION"), strings.Repeat("-", ruleWidth))
	writeCard(&sb, a)
	sb.WriteString("\nvs\n")
	writeCard(&sb, b)
	fmt.Fprintf(&sb, "\n%s\nWin Probabilities:\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(&sb, "  %s: %s\n", a.DisplayName, paint(pa).Sprintf("%.2f%%", pa*100))
	fmt.Fprintf(&sb, "  %s: %s\n", b.DisplayName, paint(pb).Sprintf("%.2f%%", pb*100))
	fmt.Fprintf(&sb, "%s\n", rule)

	_, err = io.WriteString(out, sb.String())
	return err
}

func writeCard(sb *strings.Builder, r types.RankingRow) {
	fmt.Fprintf(sb, "\n%s (%s)\n  Rank: %d\n  Rating: %.2f\n  Deviation: %.2f\n",
		r.DisplayName, r.Affiliation, r.Rank, r.Rating, r.Deviation)
}

func stateOf(r types.RankingRow) model.RatingState {
	return model.RatingState{Rating: r.Rating, Deviation: r.Deviation, Volatility: r.Volatility}
}
