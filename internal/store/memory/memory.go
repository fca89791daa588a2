// Package memory is a mutex-guarded in-process session store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

var _ store.Repository = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	cats   []core.Category
	txs    []core.Transaction
	closed bool
}

func New() *Store {
	return &Store{}
}

// NewFromSeedFile creates a store populated from a YAML snapshot. A missing
// file yields an empty store.
func NewFromSeedFile(ctx context.Context, path string) (*Store, error) {
	snap, err := store.LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	s := New()
	if err := store.Seed(ctx, s, snap); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	return slices.Clone(s.cats), nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.categoryIndex(id); i >= 0 {
		return s.cats[i], nil
	}
	return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Category{}, errClosed
	}

	if c.ID == "" {
		c.ID = core.NewID()
	}
	if i := s.categoryIndex(c.ID); i >= 0 {
		s.cats[i] = c
		return c, nil
	}
	s.cats = append(s.cats, c)
	return c, nil
}

// DeleteCategory removes the category only; transactions referencing it
// are left untouched.
func (s *Store) DeleteCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	removed := s.cats[i]
	s.cats = slices.Delete(s.cats, i, i+1)
	return removed, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	return slices.Clone(s.txs), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.transactionIndex(id); i >= 0 {
		return s.txs[i], nil
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

func (s *Store) SaveTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Transaction{}, errClosed
	}

	if t.ID == "" {
		t.ID = core.NewID()
	}
	if i := s.transactionIndex(t.ID); i >= 0 {
		s.txs[i] = t
		return t, nil
	}
	s.txs = append(s.txs, t)
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.transactionIndex(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	removed := s.txs[i]
	s.txs = slices.Delete(s.txs, i, i+1)
	return removed, nil
}

// Close drops all session data. Later calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats, s.txs, s.closed = nil, nil, true
	return nil
}

var errClosed = fmt.Errorf("memory store is closed")

func (s *Store) categoryIndex(id string) int {
	return slices.IndexFunc(s.cats, func(c core.Category) bool { return c.ID == id })
}

func (s *Store) transactionIndex(id string) int {
	return slices.IndexFunc(s.txs, func(t core.Transaction) bool { return t.ID == id })
}
