package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// EmptyBreakdown is shown when the month has no expenses.
const EmptyBreakdown = "No expenses recorded for this month"

// ComputeMonthlyStats summarizes the calendar month containing now.
func ComputeMonthlyStats(txs []core.Transaction, cats []core.Category, now time.Time) core.MonthlyStats {
	return ComputeStatsFor(txs, cats, now.Year(), now.Month(), now)
}

// ComputeStatsFor summarizes an arbitrary month. For the month containing
// now, daily averages divide by now's day of month; other months divide by
// their number of days. Transactions are matched on their calendar date.
func ComputeStatsFor(txs []core.Transaction, cats []core.Category, year int, month time.Month, now time.Time) core.MonthlyStats {
	stats := core.MonthlyStats{
		Year:             year,
		Month:            int(month),
		MonthName:        month.String(),
		AsOfDay:          daysElapsed(year, month, now),
		TransactionCount: len(txs),
	}

	type bucket struct {
		total core.Money
		count int
	}
	byCategory := make(map[string]*bucket)

	for _, t := range txs {
		if !t.Date.InMonth(year, month) {
			continue
		}
		stats.MonthTransactionCount++

		switch t.Type {
		case core.Income:
			stats.TotalIncome = stats.TotalIncome.Add(t.Amount)
		case core.Expense:
			stats.TotalExpenses = stats.TotalExpenses.Add(t.Amount)
			b := byCategory[t.CategoryID]
			if b == nil {
				b = &bucket{}
				byCategory[t.CategoryID] = b
			}
			b.total = b.total.Add(t.Amount)
			b.count++
		}
	}

	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)
	stats.DailyAverageIncome = stats.TotalIncome.DivRound(stats.AsOfDay)
	stats.DailyAverageExpense = stats.TotalExpenses.DivRound(stats.AsOfDay)
	stats.NetDaily = stats.DailyAverageIncome.Sub(stats.DailyAverageExpense)

	// Walk categories rather than buckets so the breakdown follows the
	// category collection; expenses of deleted categories stay in the
	// totals but get no row.
	stats.ByCategory = make([]core.CategoryTotal, 0, len(byCategory))
	for _, c := range cats {
		b, ok := byCategory[c.ID]
		if !ok || b.count == 0 {
			continue
		}
		stats.ByCategory = append(stats.ByCategory, core.CategoryTotal{
			Category:   c,
			Total:      b.total,
			Count:      b.count,
			Percentage: percentage(b.total, stats.TotalExpenses),
		})
		// Duplicate IDs in cats must not produce duplicate rows.
		delete(byCategory, c.ID)
	}
	slices.SortStableFunc(stats.ByCategory, func(a, b core.CategoryTotal) int {
		return cmp.Compare(b.Total.Cents, a.Total.Cents)
	})

	stats.CategoriesUsed = len(stats.ByCategory)
	if len(stats.ByCategory) == 0 {
		stats.EmptyMessage = EmptyBreakdown
	}
	return stats
}

// percentage returns part/whole*100 rounded to two decimals, or 0 when
// whole is zero.
func percentage(part, whole core.Money) float64 {
	if whole.Cents == 0 {
		return 0
	}
	p := decimal.NewFromInt(part.Cents).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole.Cents)).
		Round(2)
	f, _ := p.Float64()
	return f
}

func daysElapsed(year int, month time.Month, now time.Time) int {
	if now.Year() == year && now.Month() == month {
		return now.Day()
	}
	return daysIn(year, month)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
