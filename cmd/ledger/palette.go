package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

func paletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List the selectable category colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for i, c := range core.PaletteColors() {
				marker := ""
				if i == 0 {
					marker = " (default)"
				}
				fmt.Fprintf(out, "%2d  %s%s\n", i+1, c, marker)
			}
			return nil
		},
	}
}
