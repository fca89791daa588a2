package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/store"
)

// EventPublisher receives committed mutations.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev core.Event) error
}

// LedgerService owns a session's categories and transactions. All reads
// derive from the current store contents; mutations are serialized.
type LedgerService struct {
	repo       store.Repository
	publisher  EventPublisher
	statsCache cache.Cache[core.MonthlyStats]
	logger     *log.Logger
	now        func() time.Time

	mu         sync.Mutex
	session    string
	generation atomic.Uint64
}

type Option func(*LedgerService)

func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

func WithStatsCache(c cache.Cache[core.MonthlyStats]) Option {
	return func(s *LedgerService) { s.statsCache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

func NewLedgerService(repo store.Repository, opts ...Option) *LedgerService {
	s := &LedgerService{
		repo:    repo,
		now:     time.Now,
		session: core.NewID(),
		logger:  log.New(log.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	return s
}

// Now returns the service clock.
func (s *LedgerService) Now() time.Time {
	return s.now()
}

// Categories

func (s *LedgerService) ListCategories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *LedgerService) GetCategory(ctx context.Context, id string) (core.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// CreateCategory validates the form and stores a new category.
func (s *LedgerService) CreateCategory(ctx context.Context, form core.CategoryForm) (core.Category, error) {
	form.EditingID = ""
	c, err := form.Submit()
	if err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.repo.SaveCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.committed(ctx, core.NewCategoryEvent(core.CategoryCreated, saved, s.now()))
	return saved, nil
}

// UpdateCategory replaces the name and color of an existing category.
func (s *LedgerService) UpdateCategory(ctx context.Context, id string, form core.CategoryForm) (core.Category, error) {
	form.EditingID = id
	c, err := form.Submit()
	if err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return core.Category{}, err
	}
	saved, err := s.repo.SaveCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.committed(ctx, core.NewCategoryEvent(core.CategoryUpdated, saved, s.now()))
	return saved, nil
}

// DeleteCategory removes a category after confirmation. Transactions that
// reference it are kept and resolve as uncategorized.
func (s *LedgerService) DeleteCategory(ctx context.Context, id string, c Confirmer) error {
	if !confirm(ctx, c, PromptDeleteCategory) {
		return core.ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	s.committed(ctx, core.NewCategoryEvent(core.CategoryDeleted, removed, s.now()))
	return nil
}

// Transactions

// TransactionForm opens the transaction form: create mode for an empty id,
// edit mode pre-populated from the record otherwise.
func (s *LedgerService) TransactionForm(ctx context.Context, id string) (core.TransactionForm, error) {
	if id == "" {
		return core.NewTransactionForm(nil, s.now()), nil
	}
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return core.TransactionForm{}, err
	}
	return core.NewTransactionForm(&t, s.now()), nil
}

// SubmitTransaction validates the form and inserts a new record, or replaces
// the edited one in place.
func (s *LedgerService) SubmitTransaction(ctx context.Context, form core.TransactionForm) (core.Transaction, error) {
	t, err := form.Submit()
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.GetCategory(ctx, t.CategoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, core.ErrUnknownCategory
		}
		return core.Transaction{}, fmt.Errorf("check category: %w", err)
	}

	kind := core.TransactionCreated
	if form.IsEdit() {
		if _, err := s.repo.GetTransaction(ctx, t.ID); err != nil {
			return core.Transaction{}, err
		}
		kind = core.TransactionUpdated
	}

	saved, err := s.repo.SaveTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.committed(ctx, core.NewTransactionEvent(kind, saved, s.now()))
	return saved, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// DeleteTransaction removes a transaction after confirmation.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string, c Confirmer) error {
	if !confirm(ctx, c, PromptDeleteTransaction) {
		return core.ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}
	s.committed(ctx, core.NewTransactionEvent(core.TransactionDeleted, removed, s.now()))
	return nil
}

// ListTransactions runs the list pipeline over the current collections.
func (s *LedgerService) ListTransactions(ctx context.Context, q ListQuery) (ListResult, error) {
	txs, cats, err := s.snapshot(ctx)
	if err != nil {
		return ListResult{}, err
	}
	return FilterTransactions(txs, cats, q), nil
}

// Stats

// MonthlyStats summarizes the current month.
func (s *LedgerService) MonthlyStats(ctx context.Context) (core.MonthlyStats, error) {
	now := s.now()
	return s.StatsFor(ctx, now.Year(), now.Month())
}

// StatsFor summarizes the given month. Results are cached until the next
// mutation or the next day.
func (s *LedgerService) StatsFor(ctx context.Context, year int, month time.Month) (core.MonthlyStats, error) {
	now := s.now()
	key := fmt.Sprintf("stats:%s:%d:%04d-%02d:%s", s.session, s.generation.Load(), year, month, core.DateOf(now))

	if s.statsCache != nil {
		if st, ok := s.statsCache.Get(ctx, key); ok {
			return st, nil
		}
	}

	txs, cats, err := s.snapshot(ctx)
	if err != nil {
		return core.MonthlyStats{}, err
	}
	st := ComputeStatsFor(txs, cats, year, month, now)

	if s.statsCache != nil {
		s.statsCache.Set(ctx, key, st)
	}
	return st, nil
}

// AnnounceSnapshot publishes a created event for every stored category and
// transaction so consumers can build their projection from a session that
// was seeded outside the service. It is a no-op without a publisher.
func (s *LedgerService) AnnounceSnapshot(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	txs, cats, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	for _, c := range cats {
		if err := s.publisher.PublishEvent(ctx, core.NewCategoryEvent(core.CategoryCreated, c, now)); err != nil {
			return fmt.Errorf("announce category %s: %w", c.ID, err)
		}
	}
	for _, t := range txs {
		if err := s.publisher.PublishEvent(ctx, core.NewTransactionEvent(core.TransactionCreated, t, now)); err != nil {
			return fmt.Errorf("announce transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

// Close releases the store.
func (s *LedgerService) Close() error {
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (s *LedgerService) snapshot(ctx context.Context) ([]core.Transaction, []core.Category, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	return txs, cats, nil
}

// committed invalidates derived state, logs and publishes ev. Publishing
// is best effort; the mutation has already been stored.
func (s *LedgerService) committed(ctx context.Context, ev core.Event) {
	s.generation.Add(1)

	sl := log.NewStructuredLogger(log.FromContext(ctx).WithComponent(log.ComponentLedger))
	op := opFor(ev.Kind)
	switch {
	case ev.Transaction != nil:
		t := ev.Transaction
		sl.LogTransactionChange(ctx, op, t.ID, string(t.Type), t.Description, t.Amount.Cents, t.CategoryID)
	case ev.Category != nil:
		sl.LogCategoryChange(ctx, op, ev.Category.ID, ev.Category.Name)
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEventKind, string(ev.Kind),
			log.FieldError, err)
	}
}

func opFor(kind core.EventKind) string {
	switch kind {
	case core.CategoryCreated, core.TransactionCreated:
		return log.OpCreate
	case core.CategoryDeleted, core.TransactionDeleted:
		return log.OpDelete
	}
	return log.OpUpdate
}
