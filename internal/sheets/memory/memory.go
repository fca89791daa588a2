// Package memory is an in-process ReportWriter used when no spreadsheet is
// configured.
package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

var _ sheets.ReportWriter = (*Store)(nil)

// Store keeps the latest report per month.
type Store struct {
	mu      sync.Mutex
	reports map[string]core.MonthlyStats
	writes  int
}

func New() *Store {
	return &Store{reports: make(map[string]core.MonthlyStats)}
}

func (s *Store) WriteMonthlyReport(_ context.Context, st core.MonthlyStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[key(st.Year, st.Month)] = st
	s.writes++
	return nil
}

// Report returns the last report written for year and month.
func (s *Store) Report(year, month int) (core.MonthlyStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.reports[key(year, month)]
	return st, ok
}

// Writes reports how many reports were written in total.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func key(year, month int) string {
	return core.NewDate(year, month, 1).Format("2006-01")
}
