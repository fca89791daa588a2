package core

import (
	"strings"
	"time"
)

// TransactionForm holds raw user input for creating or editing a
// transaction. EditingID is set when the form was opened for an existing
// record.
type TransactionForm struct {
	Amount      string          `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	EditingID   string          `json:"editingId,omitempty"`
}

// NewTransactionForm opens the form. With editing set every field is
// pre-populated from the record; otherwise only the date (today) and the
// default type are filled in.
func NewTransactionForm(editing *Transaction, today time.Time) TransactionForm {
	if editing != nil {
		return TransactionForm{
			Amount:      editing.Amount.String(),
			Description: editing.Description,
			CategoryID:  editing.CategoryID,
			Date:        editing.Date.String(),
			Type:        editing.Type,
			EditingID:   editing.ID,
		}
	}
	return TransactionForm{
		Date: DateOf(today).String(),
		Type: Expense,
	}
}

func (f TransactionForm) IsEdit() bool {
	return f.EditingID != ""
}

// Submit validates the form and builds the record. In create mode the
// result has no ID; in edit mode it carries the original ID.
func (f TransactionForm) Submit() (Transaction, error) {
	desc := strings.TrimSpace(f.Description)
	category := strings.TrimSpace(f.CategoryID)
	if strings.TrimSpace(f.Amount) == "" || desc == "" || category == "" || strings.TrimSpace(f.Date) == "" {
		return Transaction{}, ErrMissingFields
	}

	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return Transaction{}, err
	}
	date, err := ParseDate(f.Date)
	if err != nil {
		return Transaction{}, err
	}

	txType := Expense
	if strings.TrimSpace(string(f.Type)) != "" {
		if txType, err = ParseTransactionType(string(f.Type)); err != nil {
			return Transaction{}, err
		}
	}

	return Transaction{
		ID:          f.EditingID,
		Amount:      amount,
		Description: desc,
		CategoryID:  category,
		Date:        date,
		Type:        txType,
	}, nil
}

// CategoryForm holds raw input for creating or renaming a category.
type CategoryForm struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	EditingID string `json:"editingId,omitempty"`
}

// NewCategoryForm opens the category form, pre-populated when editing.
// New categories start with the first palette color.
func NewCategoryForm(editing *Category) CategoryForm {
	if editing != nil {
		return CategoryForm{Name: editing.Name, Color: editing.Color, EditingID: editing.ID}
	}
	return CategoryForm{Color: Palette[0]}
}

func (f CategoryForm) IsEdit() bool {
	return f.EditingID != ""
}

// Submit trims the name and fills in the default color.
func (f CategoryForm) Submit() (Category, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Category{}, ErrEmptyCategoryName
	}
	color := strings.TrimSpace(f.Color)
	if color == "" {
		color = Palette[0]
	}
	return Category{ID: f.EditingID, Name: name, Color: color}, nil
}
