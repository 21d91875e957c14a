package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the podium version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := color.New(color.FgCyan, color.Bold).Sprint("podium")
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", name, Version, runtime.Version())
			return err
		},
	}
}
