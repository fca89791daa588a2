package services

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ledger/internal/core"
)

// SortKey selects the list ordering.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
)

// FilterAll disables the category or type filter.
const FilterAll = "all"

const (
	EmptyNoTransactions = "No transactions yet. Add your first transaction!"
	EmptyNoMatches      = "No transactions match your filters."
)

// ParseSortKey maps unknown values to SortByDate.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByAmount, SortByCategory:
		return k
	}
	return SortByDate
}

// ListQuery holds the list controls. Zero values mean "no filter" and
// date ordering.
type ListQuery struct {
	Search   string  `json:"search"`
	Category string  `json:"category"` // category ID or "all"
	Type     string  `json:"type"`     // "income", "expense" or "all"
	Sort     SortKey `json:"sort"`
}

// ListedTransaction is a transaction with its category resolved for display.
type ListedTransaction struct {
	core.Transaction
	Category core.ResolvedCategory `json:"category"`
}

// ListResult is the output of the list pipeline.
type ListResult struct {
	Items        []ListedTransaction `json:"items"`
	Total        int                 `json:"total"` // size of the unfiltered collection
	EmptyMessage string              `json:"emptyMessage,omitempty"`
}

// FilterTransactions applies search, category filter, type filter and sort,
// in that order. The input slice is not modified.
func FilterTransactions(txs []core.Transaction, cats []core.Category, q ListQuery) ListResult {
	idx := core.IndexCategories(cats)
	term := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	txType := strings.ToLower(strings.TrimSpace(q.Type))

	items := make([]ListedTransaction, 0, len(txs))
	for _, t := range txs {
		resolved := idx.Resolve(t.CategoryID)

		if term != "" &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(resolved.Name), term) {
			continue
		}
		if category != "" && category != FilterAll && t.CategoryID != category {
			continue
		}
		if txType != "" && txType != FilterAll && string(t.Type) != txType {
			continue
		}

		items = append(items, ListedTransaction{Transaction: t, Category: resolved})
	}

	sortListed(items, ParseSortKey(string(q.Sort)))

	res := ListResult{Items: items, Total: len(txs)}
	switch {
	case len(txs) == 0:
		res.EmptyMessage = EmptyNoTransactions
	case len(items) == 0:
		res.EmptyMessage = EmptyNoMatches
	}
	return res
}

func sortListed(items []ListedTransaction, key SortKey) {
	switch key {
	case SortByAmount:
		slices.SortStableFunc(items, func(a, b ListedTransaction) int {
			return cmp.Compare(b.Amount.Cents, a.Amount.Cents)
		})
	case SortByCategory:
		coll := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(items, func(a, b ListedTransaction) int {
			return coll.CompareString(a.Category.Name, b.Category.Name)
		})
	default:
		// Newest date first; among equal dates the later-created record
		// (larger time-ordered ID) comes first.
		slices.SortFunc(items, func(a, b ListedTransaction) int {
			if c := b.Date.Compare(a.Date.Time); c != 0 {
				return c
			}
			return strings.Compare(b.ID, a.ID)
		})
	}
}
