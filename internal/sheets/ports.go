package sheets

import (
	"context"

	"ledger/internal/core"
)

// ReportWriter publishes a monthly stats report to an external sheet.
type ReportWriter interface {
	WriteMonthlyReport(ctx context.Context, st core.MonthlyStats) error
}
