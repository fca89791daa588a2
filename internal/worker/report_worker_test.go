package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/amqp"
	"ledger/internal/core"
	sheetsmem "ledger/internal/sheets/memory"
	"ledger/internal/store/memory"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestWorker() (*ReportWorker, *memory.Store, *sheetsmem.Store) {
	projection := memory.New()
	writer := sheetsmem.New()
	w := NewReportWorker(projection, writer, time.Minute)
	w.now = func() time.Time { return fixedNow }
	return w, projection, writer
}

func event(ev core.Event) *amqp.EventMessage {
	return amqp.NewEventMessage(ev)
}

func TestHandleEventAppliesMutations(t *testing.T) {
	ctx := context.Background()
	w, projection, _ := newTestWorker()

	food := core.Category{ID: "c1", Name: "Food", Color: "#ef4444"}
	tx := core.Transaction{
		ID: "t1", Amount: core.Money{Cents: 1250}, Description: "Lunch",
		CategoryID: "c1", Date: core.NewDate(2026, 3, 9), Type: core.Expense,
	}

	require.NoError(t, w.HandleEvent(ctx, event(core.NewCategoryEvent(core.CategoryCreated, food, fixedNow))))
	require.NoError(t, w.HandleEvent(ctx, event(core.NewTransactionEvent(core.TransactionCreated, tx, fixedNow))))

	tx.Description = "Team lunch"
	require.NoError(t, w.HandleEvent(ctx, event(core.NewTransactionEvent(core.TransactionUpdated, tx, fixedNow))))

	txs, err := projection.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Team lunch", txs[0].Description)

	require.NoError(t, w.HandleEvent(ctx, event(core.NewTransactionEvent(core.TransactionDeleted, tx, fixedNow))))
	txs, err = projection.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	require.NoError(t, w.HandleEvent(ctx, event(core.NewCategoryEvent(core.CategoryDeleted, food, fixedNow))))
	cats, err := projection.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	assert.Equal(t, 5, w.Applied())
}

func TestHandleEventDeleteUnknownIsNoop(t *testing.T) {
	w, _, _ := newTestWorker()
	err := w.HandleEvent(context.Background(),
		event(core.NewTransactionEvent(core.TransactionDeleted, core.Transaction{ID: "missing"}, fixedNow)))
	assert.NoError(t, err)
}

func TestHandleEventRejectsMissingRecord(t *testing.T) {
	w, _, _ := newTestWorker()
	err := w.HandleEvent(context.Background(), &amqp.EventMessage{Event: core.Event{Kind: core.TransactionCreated}})
	assert.Error(t, err)
}

func TestExportWritesCurrentMonth(t *testing.T) {
	ctx := context.Background()
	w, projection, writer := newTestWorker()

	_, err := projection.SaveCategory(ctx, core.Category{ID: "c1", Name: "Food"})
	require.NoError(t, err)
	_, err = projection.SaveTransaction(ctx, core.Transaction{
		ID: "t1", Amount: core.Money{Cents: 2000}, Description: "Groceries",
		CategoryID: "c1", Date: core.NewDate(2026, 3, 2), Type: core.Expense,
	})
	require.NoError(t, err)
	_, err = projection.SaveTransaction(ctx, core.Transaction{
		ID: "t2", Amount: core.Money{Cents: 9999}, Description: "Old",
		CategoryID: "c1", Date: core.NewDate(2026, 2, 2), Type: core.Expense,
	})
	require.NoError(t, err)

	assert.True(t, w.Dirty())
	require.NoError(t, w.Export(ctx))
	assert.False(t, w.Dirty())

	st, ok := writer.Report(2026, 3)
	require.True(t, ok)
	assert.Equal(t, int64(2000), st.TotalExpenses.Cents)
	assert.Equal(t, int64(200), st.DailyAverageExpense.Cents)
	assert.Equal(t, 1, st.MonthTransactionCount)
	require.Len(t, st.ByCategory, 1)
	assert.Equal(t, 100.0, st.ByCategory[0].Percentage)
}

type failingWriter struct{}

func (failingWriter) WriteMonthlyReport(context.Context, core.MonthlyStats) error {
	return errors.New("quota exceeded")
}

func TestExportKeepsDirtyOnFailure(t *testing.T) {
	w := NewReportWorker(memory.New(), failingWriter{}, time.Minute)
	err := w.Export(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
	assert.True(t, w.Dirty())
}

func TestRunStopsOnCancel(t *testing.T) {
	w, _, writer := newTestWorker()
	w.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return writer.Writes() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
