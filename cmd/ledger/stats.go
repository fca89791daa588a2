package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/store/memory"
)

func statsCmd() *cobra.Command {
	var (
		file   string
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print monthly stats for a YAML snapshot",
		Long: `Load categories and transactions from a YAML snapshot and print the
summary of the month containing --date (default: today).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if date != "" {
				d, err := core.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				now = d.Time
			}
			return runStats(cmd.Context(), cmd.OutOrStdout(), file, now, asJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML snapshot with categories and transactions")
	cmd.Flags().StringVar(&date, "date", "", "as-of date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runStats(ctx context.Context, out io.Writer, file string, now time.Time, asJSON bool) error {
	// The seed loader treats a missing file as empty; a snapshot must exist.
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	repo, err := memory.NewFromSeedFile(ctx, file)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc := services.NewLedgerService(repo, services.WithClock(func() time.Time { return now }))
	st, err := svc.MonthlyStats(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	return printStats(out, st)
}

func printStats(out io.Writer, st core.MonthlyStats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s %d (day %d)\n\n", st.MonthName, st.Year, st.AsOfDay)
	fmt.Fprintf(w, "Total income\t%s\n", st.TotalIncome)
	fmt.Fprintf(w, "Total expenses\t%s\n", st.TotalExpenses)
	fmt.Fprintf(w, "Balance\t%s\n", st.Balance)
	fmt.Fprintf(w, "Daily average income\t%s\n", st.DailyAverageIncome)
	fmt.Fprintf(w, "Daily average expense\t%s\n", st.DailyAverageExpense)
	fmt.Fprintf(w, "Net daily\t%s\n", st.NetDaily)
	fmt.Fprintf(w, "Transactions\t%d this month, %d total\n", st.MonthTransactionCount, st.TransactionCount)
	fmt.Fprintf(w, "Categories used\t%d\n\n", st.CategoriesUsed)

	if len(st.ByCategory) == 0 {
		fmt.Fprintln(w, st.EmptyMessage)
		return w.Flush()
	}

	fmt.Fprintf(w, "Category\tTotal\tCount\tShare\n")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 8), strings.Repeat("-", 5), strings.Repeat("-", 5), strings.Repeat("-", 5))
	for _, row := range st.ByCategory {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f%%\n", row.Category.Name, row.Total, row.Count, row.Percentage)
	}
	return w.Flush()
}
