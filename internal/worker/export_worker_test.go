package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
)

type fakeAppender struct {
	appended []core.Transaction
	err      error
}

func (f *fakeAppender) Append(_ context.Context, tx core.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, tx)
	return "Transactions!A2:F2", nil
}

func sampleMessage() *amqp.TransactionCreatedMessage {
	return amqp.NewTransactionCreatedMessage(core.Transaction{
		ID:          "1700000000000-abc123",
		Amount:      25,
		Description: "Lunch",
		Category:    "food",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Type:        core.Expense,
	})
}

func TestExportWorker_HandleCreatedMessage(t *testing.T) {
	appender := &fakeAppender{}
	w := NewExportWorker(appender)

	if err := w.HandleCreatedMessage(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("HandleCreatedMessage() error = %v", err)
	}
	if len(appender.appended) != 1 {
		t.Fatalf("appended %d transactions, want 1", len(appender.appended))
	}
	if appender.appended[0].ID != "1700000000000-abc123" {
		t.Errorf("appended wrong transaction: %+v", appender.appended[0])
	}
}

func TestExportWorker_AppendFailurePropagates(t *testing.T) {
	appender := &fakeAppender{err: errors.New("sheet unavailable")}
	w := NewExportWorker(appender)

	if err := w.HandleCreatedMessage(context.Background(), sampleMessage()); err == nil {
		t.Error("append failure should propagate so the delivery is requeued")
	}
}

func TestExportWorker_NilAppenderDropsEvent(t *testing.T) {
	w := NewExportWorker(nil)

	if err := w.HandleCreatedMessage(context.Background(), sampleMessage()); err != nil {
		t.Errorf("HandleCreatedMessage() error = %v, want nil for missing destination", err)
	}
}
