// Package storage provides a SQLite-backed transaction store for
// deployments that need the ledger to survive restarts.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"budget/internal/core"
	"budget/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List implements store.Lister. Filters and the limit are pushed into
// SQL, with rows taken in insertion order; the chronological sort
// happens afterwards, matching the memory store's pipeline exactly.
func (r *SQLiteRepository) List(ctx context.Context, q store.Query) ([]core.Transaction, error) {
	query := "SELECT id, amount, description, category, date, type FROM transactions"
	var (
		conds []string
		args  []any
	)
	if q.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, q.Category)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY rowid"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var (
			tx      core.Transaction
			rawDate string
			rawType string
		)
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Description, &tx.Category, &rawDate, &rawType); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := time.Parse(time.RFC3339, rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", rawDate, err)
		}
		tx.Date = date
		tx.Type = core.TransactionType(rawType)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// Create implements store.Creator
func (r *SQLiteRepository) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := in.Transaction()
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ID = store.NewID()

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO transactions (id, amount, description, category, date, type) VALUES (?, ?, ?, ?, ?, ?)",
		tx.ID, tx.Amount, tx.Description, tx.Category, tx.Date.Format(time.RFC3339), string(tx.Type))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"transaction_id", tx.ID,
		"amount", tx.Amount,
		"category", tx.Category,
		"transaction_type", string(tx.Type))

	return tx, nil
}
