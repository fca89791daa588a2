// Package store defines the ledger's storage ports. Implementations live
// in store/memory and in the SQLite-backed storage package.
package store

import (
	"context"

	"ledger/internal/core"
)

type (
	// CategoryRepository keeps categories in insertion order.
	CategoryRepository interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id string) (core.Category, error)
		// SaveCategory inserts when c.ID is empty or unknown and replaces
		// the stored record otherwise. A fresh ID is assigned on insert
		// when c.ID is empty.
		SaveCategory(ctx context.Context, c core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) (core.Category, error)
	}

	// TransactionRepository keeps transactions in insertion order.
	TransactionRepository interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		SaveTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	// Repository is a complete session store.
	Repository interface {
		CategoryRepository
		TransactionRepository
		Close() error
	}
)
