// Package core holds the ledger domain: categories, transactions, the
// create/edit forms and the stats result types.
package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// UncategorizedLabel is shown for transactions whose category no longer exists.
const UncategorizedLabel = "Uncategorized"

type (
	TransactionType string

	// Date is a calendar date without a time zone.
	Date struct {
		time.Time
	}

	Category struct {
		ID    string `json:"id" yaml:"id"`
		Name  string `json:"name" yaml:"name"`
		Color string `json:"color" yaml:"color"`
	}

	Transaction struct {
		ID          string          `json:"id" yaml:"id"`
		Amount      Money           `json:"amount" yaml:"amount"`
		Description string          `json:"description" yaml:"description"`
		CategoryID  string          `json:"categoryId" yaml:"categoryId"`
		Date        Date            `json:"date" yaml:"date"`
		Type        TransactionType `json:"type" yaml:"type"`
	}
)

// NewID returns a time-ordered identifier. IDs created later sort after
// earlier ones, which the date sort relies on as a tie-breaker.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", ErrInvalidType
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar fields of t in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// InMonth reports whether d falls in the given calendar year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Time.Month() == month
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return fmt.Errorf("date %q: %w", b, err)
	}
	*d = parsed
	return nil
}

// MarshalJSON shadows the promoted time.Time encoder.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	return d.UnmarshalText([]byte(s))
}

// ResolvedCategory is the display form of a transaction's category reference.
type ResolvedCategory struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Orphaned bool   `json:"orphaned,omitempty"`
}

// ResolveCategory looks up id in cats. Missing categories resolve to the
// uncategorized label and the default color.
func ResolveCategory(id string, cats []Category) ResolvedCategory {
	return IndexCategories(cats).Resolve(id)
}

// CategoryIndex maps category IDs to categories for repeated lookups.
type CategoryIndex map[string]Category

// IndexCategories keeps the first category seen for each ID.
func IndexCategories(cats []Category) CategoryIndex {
	idx := make(CategoryIndex, len(cats))
	for _, c := range cats {
		if _, dup := idx[c.ID]; !dup {
			idx[c.ID] = c
		}
	}
	return idx
}

func (idx CategoryIndex) Resolve(id string) ResolvedCategory {
	if c, ok := idx[id]; ok {
		return ResolvedCategory{Name: c.Name, Color: c.ColorOrDefault()}
	}
	return ResolvedCategory{Name: UncategorizedLabel, Color: DefaultColor, Orphaned: true}
}

func (c Category) ColorOrDefault() string {
	if strings.TrimSpace(c.Color) == "" {
		return DefaultColor
	}
	return c.Color
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" || strings.TrimSpace(t.CategoryID) == "" || t.Date.IsZero() {
		return ErrMissingFields
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}
