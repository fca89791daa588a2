package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/sheets"
	"ledger/internal/store"
)

// ReportWorker keeps a projection of the ledger built from published events
// and periodically exports the current month's stats.
type ReportWorker struct {
	projection store.Repository
	writer     sheets.ReportWriter
	interval   time.Duration
	now        func() time.Time

	mu      sync.Mutex
	applied int
	dirty   bool
}

func NewReportWorker(projection store.Repository, writer sheets.ReportWriter, interval time.Duration) *ReportWorker {
	return &ReportWorker{
		projection: projection,
		writer:     writer,
		interval:   interval,
		now:        time.Now,
		// export once on the first tick even without events
		dirty: true,
	}
}

// HandleEvent applies one event to the projection. Deleting a record the
// projection never saw is not an error.
func (w *ReportWorker) HandleEvent(ctx context.Context, msg *amqp.EventMessage) error {
	ev := msg.Event
	slog.InfoContext(ctx, "Processing ledger event",
		"message_id", msg.MessageID,
		"kind", ev.Kind,
		"record_id", ev.RecordID())

	var err error
	switch ev.Kind {
	case core.CategoryCreated, core.CategoryUpdated:
		if ev.Category == nil {
			return fmt.Errorf("%s without category", ev.Kind)
		}
		_, err = w.projection.SaveCategory(ctx, *ev.Category)
	case core.CategoryDeleted:
		if ev.Category == nil {
			return fmt.Errorf("%s without category", ev.Kind)
		}
		_, err = w.projection.DeleteCategory(ctx, ev.Category.ID)
	case core.TransactionCreated, core.TransactionUpdated:
		if ev.Transaction == nil {
			return fmt.Errorf("%s without transaction", ev.Kind)
		}
		_, err = w.projection.SaveTransaction(ctx, *ev.Transaction)
	case core.TransactionDeleted:
		if ev.Transaction == nil {
			return fmt.Errorf("%s without transaction", ev.Kind)
		}
		_, err = w.projection.DeleteTransaction(ctx, ev.Transaction.ID)
	default:
		slog.WarnContext(ctx, "Ignoring unknown event kind", "kind", ev.Kind)
		return nil
	}

	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("apply %s: %w", ev.Kind, err)
	}

	w.mu.Lock()
	w.applied++
	w.dirty = true
	w.mu.Unlock()
	return nil
}

// Export computes the stats for the current month and hands them to the
// report writer.
func (w *ReportWorker) Export(ctx context.Context) error {
	cats, err := w.projection.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	txs, err := w.projection.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	st := services.ComputeMonthlyStats(txs, cats, w.now())
	if err := w.writer.WriteMonthlyReport(ctx, st); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	w.mu.Lock()
	w.dirty = false
	w.mu.Unlock()

	slog.InfoContext(ctx, "Monthly report exported",
		"year", st.Year,
		"month", st.Month,
		"transactions", st.MonthTransactionCount,
		"total_expenses_cents", st.TotalExpenses.Cents)
	return nil
}

// Run exports on every tick when the projection changed since the last
// export. It returns when ctx is done.
func (w *ReportWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !w.Dirty() {
				continue
			}
			if err := w.Export(ctx); err != nil {
				slog.ErrorContext(ctx, "Report export failed", "error", err)
			}
		}
	}
}

func (w *ReportWorker) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

// Applied reports how many events were applied to the projection.
func (w *ReportWorker) Applied() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied
}
