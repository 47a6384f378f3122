// Package export defines the ports for shipping transactions to
// external destinations.
package export

import (
	"context"

	"budget/internal/core"
)

// Appender writes a transaction to an external destination and returns
// a reference to where it landed.
type Appender interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
}
