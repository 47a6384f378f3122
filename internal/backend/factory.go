package backend

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"budget/internal/mockdata"
	"budget/internal/storage"
	"budget/internal/store"
)

// Factory creates stores based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the store described by the config
func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	switch config.Type {
	case MemoryBackend:
		return f.createMemory(config)
	case SQLiteBackend:
		return f.createSQLite(config)
	default:
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}
}

func (f *Factory) createMemory(config Config) (*Result, error) {
	rng := config.SeedRand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	seed := mockdata.Generate(config.SeedCount, rng)
	st, err := store.NewMemoryWithData(seed)
	if err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}

	f.logger.Info("Initialized memory backend",
		"backend", MemoryBackend.String(),
		"seed_count", len(seed))

	return &Result{Store: st, Cleanup: nil}, nil
}

func (f *Factory) createSQLite(config Config) (*Result, error) {
	if config.SQLiteDBPath == "" {
		return nil, fmt.Errorf("SQLite database path is required for sqlite backend")
	}

	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		"backend", SQLiteBackend.String(),
		"db_path", config.SQLiteDBPath)

	return &Result{Store: repo, Cleanup: repo.Close}, nil
}
