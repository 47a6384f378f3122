package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is the sole domain entity: a single income or expense
	// record. The id is assigned by the store and never mutated afterward.
	Transaction struct {
		ID          string          `json:"id"`
		Amount      float64         `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
		Type        TransactionType `json:"type"`
	}

	// TransactionInput is a candidate record without an id, as received
	// from the create endpoint. Amount is a pointer so an absent field can
	// be told apart from an explicit zero.
	TransactionInput struct {
		Amount      *float64 `json:"amount"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Date        string   `json:"date"`
		Type        string   `json:"type"`
	}
)

var (
	ErrMissingFields = errors.New("Missing required fields")
	ErrInvalidType   = errors.New(`Invalid transaction type. Must be "income" or "expense"`)
	ErrInvalidAmount = errors.New("Amount must be a positive number")
	ErrInvalidDate   = errors.New("Invalid date format. Must be an ISO-8601 date")
)

// IsValidationError reports whether err is a rejection of caller input, as
// opposed to an internal fault.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDate)
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Validate checks the input preconditions in order; the first failure wins.
// A present-but-zero amount is reported as an invalid amount, not a missing
// field, so the rejection message tells the caller what to fix.
func (in TransactionInput) Validate() error {
	if in.Amount == nil ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" ||
		strings.TrimSpace(in.Date) == "" ||
		strings.TrimSpace(in.Type) == "" {
		return ErrMissingFields
	}
	if !TransactionType(in.Type).Valid() {
		return ErrInvalidType
	}
	if *in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(in.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Transaction builds the validated, id-less record from the input. The id
// is left empty; assigning it is the store's job.
func (in TransactionInput) Transaction() (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, ErrInvalidDate
	}
	return Transaction{
		Amount:      *in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Date:        date,
		Type:        TransactionType(in.Type),
	}, nil
}

// ParseDate accepts an ISO-8601 timestamp (RFC 3339) or a plain calendar
// date and normalizes it to UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}
