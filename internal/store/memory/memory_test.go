package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestStore_CategoryCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.SaveCategory(ctx, core.Category{Name: "Food", Color: "#ef4444"})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	b, err := s.SaveCategory(ctx, core.Category{Name: "Food", Color: "#ef4444"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "duplicate names are allowed and get distinct ids")

	a.Name = "Groceries"
	_, err = s.SaveCategory(ctx, a)
	require.NoError(t, err)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Groceries", cats[0].Name, "update keeps position")
	assert.Equal(t, a.ID, cats[0].ID)

	removed, err := s.DeleteCategory(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", removed.Name)

	_, err = s.GetCategory(ctx, a.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.DeleteCategory(ctx, a.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_DeleteCategoryKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	s := New()

	c, _ := s.SaveCategory(ctx, core.Category{Name: "Food"})
	tx, err := s.SaveTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 500}, Description: "Lunch", CategoryID: c.ID,
		Date: core.NewDate(2026, 3, 1), Type: core.Expense,
	})
	require.NoError(t, err)

	_, err = s.DeleteCategory(ctx, c.ID)
	require.NoError(t, err)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CategoryID)
}

func TestStore_TransactionsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	var ids []string
	for _, d := range []string{"first", "second", "third"} {
		tx, err := s.SaveTransaction(ctx, core.Transaction{Description: d})
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}

	_, err := s.SaveTransaction(ctx, core.Transaction{ID: ids[1], Description: "second (edited)"})
	require.NoError(t, err)
	_, err = s.DeleteTransaction(ctx, ids[0])
	require.NoError(t, err)

	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "second (edited)", txs[0].Description)
	assert.Equal(t, "third", txs[1].Description)

	txs[0].Description = "mutated"
	again, _ := s.ListTransactions(ctx)
	assert.Equal(t, "second (edited)", again[0].Description, "list returns a copy")
}

func TestStore_SaveWithUnknownIDInserts(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.SaveCategory(ctx, core.Category{ID: "fixed", Name: "Replayed"})
	require.NoError(t, err)
	got, err := s.GetCategory(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "Replayed", got.Name)
}

func TestStore_Close(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.SaveCategory(ctx, core.Category{Name: "Food"})
	require.NoError(t, s.Close())

	_, err := s.ListCategories(ctx)
	assert.Error(t, err)
	_, err = s.SaveTransaction(ctx, core.Transaction{})
	assert.Error(t, err)
}

func TestNewFromSeedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFromSeedFile(ctx, filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	cats, _ := s.ListCategories(ctx)
	assert.Empty(t, cats)

	path := filepath.Join(dir, "seed.yaml")
	seed := `categories:
  - name: "  Food "
    color: "#ef4444"
  - id: c-rent
    name: Rent
transactions:
  - id: t1
    amount: 12.5
    description: Pizza
    categoryId: c-rent
    date: 2026-03-02
    type: expense
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	s, err = NewFromSeedFile(ctx, path)
	require.NoError(t, err)
	cats, _ = s.ListCategories(ctx)
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].Name)
	assert.Equal(t, core.Category{ID: "c-rent", Name: "Rent", Color: core.Palette[0]}, cats[1])

	tx, err := s.GetTransaction(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), tx.Amount.Cents)
	assert.Equal(t, "2026-03-02", tx.Date.String())

	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: \"\"\n"), 0o600))
	_, err = NewFromSeedFile(ctx, path)
	assert.ErrorIs(t, err, core.ErrEmptyCategoryName)
}
