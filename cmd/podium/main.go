package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev" //nolint:gochecknoglobals // build-time stamp

// newRootCmd builds the command tree. Tests build their own copy.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "podium",
		Short:         "Season-long Glicko-2 rankings for debate circuits",
		Long:          `podium rates every competitor of a season of tournaments with Glicko-2 and writes ranking tables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRankCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main executes the root command and exits with status 1 on failure.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("podium: " + err.Error() + "\n")
		os.Exit(1)
	}
}
