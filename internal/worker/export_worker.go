// Package worker consumes transaction events and ships them to the
// configured export destination.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/export"
)

// ExportWorker appends created transactions to an external sheet
type ExportWorker struct {
	appender export.Appender
}

func NewExportWorker(appender export.Appender) *ExportWorker {
	return &ExportWorker{appender: appender}
}

// HandleCreatedMessage processes a single transaction created event.
// Returning an error requeues the delivery.
func (w *ExportWorker) HandleCreatedMessage(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	tx := msg.Transaction

	slog.InfoContext(ctx, "Exporting transaction",
		"transaction_id", tx.ID,
		"transaction_type", string(tx.Type),
		"category", tx.Category)

	if w.appender == nil {
		slog.WarnContext(ctx, "No export destination configured, dropping event",
			"transaction_id", tx.ID)
		return nil
	}

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction %s: %w", tx.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"transaction_id", tx.ID,
		"sheets_range", ref)

	return nil
}
