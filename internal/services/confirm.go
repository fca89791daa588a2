package services

import "context"

const (
	PromptDeleteCategory    = "Are you sure you want to delete this category? This action cannot be undone."
	PromptDeleteTransaction = "Are you sure you want to delete this transaction?"
)

// Confirmer gates destructive operations. It returns true to proceed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed is a Confirmer with a fixed answer.
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) bool {
	return bool(c)
}

func confirm(ctx context.Context, c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(ctx, prompt)
}
