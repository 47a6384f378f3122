package store

import (
	"context"

	"budget/internal/core"
)

// Query holds the optional list filters. A zero value means "no filter";
// Limit values <= 0 are treated as absent.
type Query struct {
	Type     core.TransactionType
	Category string
	Limit    int
}

// Ports for the transaction store backends.
type (
	Lister interface {
		// List returns a snapshot of the matching transactions, sorted by
		// date descending.
		List(ctx context.Context, q Query) ([]core.Transaction, error)
	}

	Creator interface {
		// Create validates the input, assigns a fresh unique id, appends
		// the record and returns it. No mutation happens on failure.
		Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	}

	Store interface {
		Lister
		Creator
	}
)
