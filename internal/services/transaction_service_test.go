package services

import (
	"context"
	"errors"
	"testing"

	"budget/internal/core"
	"budget/internal/store"
)

type fakePublisher struct {
	published []core.Transaction
	err       error
}

func (f *fakePublisher) PublishTransactionCreated(_ context.Context, tx core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, tx)
	return nil
}

func amt(v float64) *float64 { return &v }

func validInput() core.TransactionInput {
	return core.TransactionInput{
		Amount:      amt(50),
		Description: "Groceries",
		Category:    "food",
		Date:        "2024-01-15",
		Type:        "expense",
	}
}

func TestTransactionService_CreatePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(store.NewMemory(), pub)

	tx, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	if pub.published[0].ID != tx.ID {
		t.Errorf("published event for %q, want %q", pub.published[0].ID, tx.ID)
	}
}

func TestTransactionService_CreatePublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store.NewMemory(), pub)

	tx, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create() error = %v, publish failure must not fail the request", err)
	}
	if tx.ID == "" {
		t.Error("transaction not stored despite publish failure")
	}
}

func TestTransactionService_CreateWithoutPublisher(t *testing.T) {
	svc := NewTransactionService(store.NewMemory(), nil)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestTransactionService_CreateValidationErrorDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewTransactionService(store.NewMemory(), pub)

	in := validInput()
	in.Type = "transfer"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("Create() error = %v, want %v", err, core.ErrInvalidType)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events for rejected create, want 0", len(pub.published))
	}
}

func TestTransactionService_List(t *testing.T) {
	st := store.NewMemory()
	svc := NewTransactionService(st, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), validInput()); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := svc.List(context.Background(), store.Query{Type: core.Expense})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}
