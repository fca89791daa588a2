package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Personal income and expense tracker",
	Long: `ledger tracks categorized income and expense transactions for a
session and reports monthly totals, daily averages and a per-category
expense breakdown.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(paletteCmd())
}

func main() {
	cli.LoadEnvFile()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
