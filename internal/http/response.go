package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"budget/internal/core"
)

// Wire messages shared by the transaction handlers.
const (
	msgCreated     = "Transaction created successfully"
	msgFetchFailed = "Failed to fetch transactions"
	msgSaveFailed  = "Failed to create transaction"
)

// listResponse is the envelope for GET /api/transactions
type listResponse struct {
	Success bool               `json:"success"`
	Data    []core.Transaction `json:"data"`
	Total   int                `json:"total"`
}

// createResponse is the envelope for a successful POST /api/transactions
type createResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    core.Transaction `json:"data"`
}

// errorResponse is the envelope for any failed API request
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeList(w http.ResponseWriter, txs []core.Transaction) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    txs,
		Total:   len(txs),
	})
}

func writeCreated(w http.ResponseWriter, tx core.Transaction) {
	writeJSON(w, http.StatusCreated, createResponse{
		Success: true,
		Message: msgCreated,
		Data:    tx,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   message,
	})
}
