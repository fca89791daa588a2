package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ledger/internal/core"
)

// Snapshot is the YAML shape of a seed or exported session.
type Snapshot struct {
	Categories   []core.Category    `yaml:"categories"`
	Transactions []core.Transaction `yaml:"transactions"`
}

// LoadSnapshot reads a YAML snapshot. A missing file yields an empty
// snapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	if path == "" {
		return snap, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Seed inserts every category and transaction in snap into repo, keeping
// IDs present in the snapshot. Categories are validated; transactions
// are stored as given so snapshots may contain orphans.
func Seed(ctx context.Context, repo Repository, snap Snapshot) error {
	for _, c := range snap.Categories {
		f := core.CategoryForm{Name: c.Name, Color: c.Color, EditingID: c.ID}
		cat, err := f.Submit()
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		if _, err := repo.SaveCategory(ctx, cat); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	for _, t := range snap.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("seed transaction %q: %w", t.Description, err)
		}
		if _, err := repo.SaveTransaction(ctx, t); err != nil {
			return fmt.Errorf("seed transaction %q: %w", t.Description, err)
		}
	}
	return nil
}
