// Package services orchestrates transaction operations across the
// store and the event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/core"
	"budget/internal/store"
)

// EventPublisher publishes transaction lifecycle events
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, tx core.Transaction) error
}

// TransactionService wraps a store and publishes created events
type TransactionService struct {
	store     store.Store
	publisher EventPublisher
}

func NewTransactionService(st store.Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     st,
		publisher: publisher,
	}
}

// List returns transactions matching the query
func (s *TransactionService) List(ctx context.Context, q store.Query) ([]core.Transaction, error) {
	txs, err := s.store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Create validates and stores a transaction, then publishes a created
// event. Publish failures are logged but never fail the request, the
// record is already stored.
func (s *TransactionService) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := s.store.Create(ctx, in)
	if err != nil {
		return core.Transaction{}, err
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping created event",
			"transaction_id", tx.ID)
		return tx, nil
	}

	if err := s.publisher.PublishTransactionCreated(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction created event",
			"transaction_id", tx.ID,
			"error", err)
	}

	return tx, nil
}
