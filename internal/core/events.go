package core

import "time"

// EventKind names a ledger mutation.
type EventKind string

const (
	CategoryCreated    EventKind = "category.created"
	CategoryUpdated    EventKind = "category.updated"
	CategoryDeleted    EventKind = "category.deleted"
	TransactionCreated EventKind = "transaction.created"
	TransactionUpdated EventKind = "transaction.updated"
	TransactionDeleted EventKind = "transaction.deleted"
)

// Event describes one committed mutation. Exactly one of Category and
// Transaction is set; for deletions it holds the removed record.
type Event struct {
	Kind        EventKind    `json:"kind"`
	Category    *Category    `json:"category,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
	OccurredAt  time.Time    `json:"occurredAt"`
}

func NewCategoryEvent(kind EventKind, c Category, at time.Time) Event {
	return Event{Kind: kind, Category: &c, OccurredAt: at}
}

func NewTransactionEvent(kind EventKind, t Transaction, at time.Time) Event {
	return Event{Kind: kind, Transaction: &t, OccurredAt: at}
}

// RecordID returns the ID of the record the event refers to.
func (e Event) RecordID() string {
	switch {
	case e.Category != nil:
		return e.Category.ID
	case e.Transaction != nil:
		return e.Transaction.ID
	}
	return ""
}
