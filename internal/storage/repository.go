// Package storage is the SQLite session store. Each repository owns a
// private in-memory database that disappears when it is closed.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	_ "modernc.org/sqlite"

	"ledger/internal/core"
	"ledger/internal/store"
)

var _ store.Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

// MemoryDSN builds a shared-cache in-memory DSN unique to one repository.
func MemoryDSN(name string) string {
	if name == "" {
		name = "ledger"
	}
	return fmt.Sprintf("file:%s-%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", url.PathEscape(name), core.NewID())
}

// NewSQLiteRepository opens a fresh in-memory database named after name and
// applies the schema.
func NewSQLiteRepository(name string) (*SQLiteRepository, error) {
	return open(MemoryDSN(name))
}

func open(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers, and keeping it idle keeps the
	// in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM categories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name, color FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = core.NewID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, color = excluded.color`,
		c.ID, c.Name, c.Color)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	slog.DebugContext(ctx, "Category saved to SQLite", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `DELETE FROM categories WHERE id = ? RETURNING id, name, color`, id).
		Scan(&c.ID, &c.Name, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("delete category: %w", err)
	}
	return c, nil
}

const transactionColumns = `id, amount_cents, description, category_id, date, type`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t    core.Transaction
		date string
		typ  string
	)
	if err := s.Scan(&t.ID, &t.Amount.Cents, &t.Description, &t.CategoryID, &date, &typ); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s date %q: %w", t.ID, date, err)
	}
	t.Date = d
	t.Type = core.TransactionType(typ)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = core.NewID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			description  = excluded.description,
			category_id  = excluded.category_id,
			date         = excluded.date,
			type         = excluded.type`,
		t.ID, t.Amount.Cents, t.Description, t.CategoryID, t.Date.String(), string(t.Type))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, `DELETE FROM transactions WHERE id = ? RETURNING `+transactionColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}
	return t, nil
}
