package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"budget/internal/core"
	"budget/internal/store"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.metrics.listRequests, 1)

	q := ParseListQuery(r.URL.Query())
	key := listCacheKey(q)

	if txs, ok := s.listCache.Get(key); ok {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		writeList(w, txs)
		return
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	txs, err := s.service.List(r.Context(), q)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list failed",
			"error", err,
			"transaction_type", string(q.Type),
			"category", q.Category,
			"limit", q.Limit)
		writeError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	s.listCache.Set(key, txs)
	writeList(w, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.metrics.createRequests, 1)

	in, err := DecodeTransactionInput(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction body decode failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	tx, err := s.service.Create(r.Context(), in)
	if err != nil {
		if core.IsValidationError(err) {
			atomic.AddInt64(&s.metrics.validationFailures, 1)
			slog.WarnContext(r.Context(), "Transaction rejected",
				"error", err.Error(),
				"category", in.Category,
				"transaction_type", in.Type)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Transaction create failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	// Every cached page is stale once a write lands.
	s.listCache.Purge()

	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", tx.ID,
		"transaction_type", string(tx.Type),
		"category", tx.Category,
		"amount", tx.Amount)

	writeCreated(w, tx)
}

func listCacheKey(q store.Query) string {
	return fmt.Sprintf("%s|%s|%d", q.Type, q.Category, q.Limit)
}
