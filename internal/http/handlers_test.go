package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/core"
	"budget/internal/services"
	"budget/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewTransactionService(store.NewMemory(), nil)
	s := NewServer(":0", svc, Options{RateLimitPerMinute: 1000})
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createBody(amount any, desc, cat, date, typ string) string {
	payload := map[string]any{
		"description": desc,
		"category":    cat,
		"date":        date,
		"type":        typ,
	}
	if amount != nil {
		payload["amount"] = amount
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestListEmptyStore(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Success bool               `json:"success"`
		Data    []core.Transaction `json:"data"`
		Total   int                `json:"total"`
	}
	decodeBody(t, rec, &body)
	if !body.Success || body.Data == nil || body.Total != 0 {
		t.Errorf("body = %+v, want success with empty data and total 0", body)
	}
}

func TestCreateTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/transactions",
		createBody(100.0, "Test", "food", "2024-01-01", "expense"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    core.Transaction `json:"data"`
	}
	decodeBody(t, rec, &body)
	if !body.Success {
		t.Error("success = false")
	}
	if body.Message != "Transaction created successfully" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Data.ID == "" || body.Data.Amount != 100 || body.Data.Type != core.Expense {
		t.Errorf("data = %+v", body.Data)
	}

	// The new record shows up in subsequent lists.
	rec = doRequest(s, http.MethodGet, "/api/transactions", "")
	var listBody struct {
		Total int `json:"total"`
	}
	decodeBody(t, rec, &listBody)
	if listBody.Total != 1 {
		t.Errorf("total after create = %d, want 1", listBody.Total)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{
			"zero amount",
			createBody(0.0, "x", "food", "2024-01-01", "expense"),
			"Amount must be a positive number",
		},
		{
			"negative amount",
			createBody(-5.0, "x", "food", "2024-01-01", "expense"),
			"Amount must be a positive number",
		},
		{
			"missing amount",
			createBody(nil, "x", "food", "2024-01-01", "expense"),
			"Missing required fields",
		},
		{
			"missing description",
			createBody(10.0, "", "food", "2024-01-01", "expense"),
			"Missing required fields",
		},
		{
			"invalid type",
			createBody(10.0, "x", "food", "2024-01-01", "transfer"),
			`Invalid transaction type. Must be "income" or "expense"`,
		},
		{
			"unparseable date",
			createBody(10.0, "x", "food", "yesterday", "expense"),
			"Invalid date format. Must be an ISO-8601 date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := doRequest(s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			decodeBody(t, rec, &body)
			if body.Success {
				t.Error("success = true for rejected create")
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}

			// Rejected creates never land in the store.
			rec = doRequest(s, http.MethodGet, "/api/transactions", "")
			var listBody struct {
				Total int `json:"total"`
			}
			decodeBody(t, rec, &listBody)
			if listBody.Total != 0 {
				t.Errorf("store holds %d records after rejected create", listBody.Total)
			}
		})
	}
}

func TestCreateMalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/transactions", "{not valid json")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Success || body.Error != "Failed to create transaction" {
		t.Errorf("body = %+v", body)
	}
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)

	seed := []string{
		createBody(100.0, "pay", "salary", "2024-01-05", "income"),
		createBody(10.0, "lunch", "food", "2024-01-06", "expense"),
		createBody(20.0, "dinner", "food", "2024-01-07", "expense"),
		createBody(30.0, "train", "transportation", "2024-01-08", "expense"),
	}
	for _, b := range seed {
		if rec := doRequest(s, http.MethodPost, "/api/transactions", b); rec.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	tests := []struct {
		name      string
		target    string
		wantTotal int
	}{
		{"type income", "/api/transactions?type=income", 1},
		{"type expense", "/api/transactions?type=expense", 3},
		{"category food", "/api/transactions?category=food", 2},
		{"type and category", "/api/transactions?type=expense&category=food", 2},
		{"limit", "/api/transactions?limit=3", 3},
		{"limit above total", "/api/transactions?limit=100", 4},
		{"non-numeric limit ignored", "/api/transactions?limit=abc", 4},
		{"non-positive limit ignored", "/api/transactions?limit=0", 4},
		{"unknown type matches nothing", "/api/transactions?type=transfer", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var body struct {
				Total int                `json:"total"`
				Data  []core.Transaction `json:"data"`
			}
			decodeBody(t, rec, &body)
			if body.Total != tt.wantTotal || len(body.Data) != tt.wantTotal {
				t.Errorf("total = %d (data %d), want %d", body.Total, len(body.Data), tt.wantTotal)
			}
		})
	}
}

func TestListSortedDateDescending(t *testing.T) {
	s := newTestServer(t)

	for _, d := range []string{"2024-02-01", "2024-03-01", "2024-01-01"} {
		doRequest(s, http.MethodPost, "/api/transactions",
			createBody(10.0, "tx", "food", d, "expense"))
	}

	rec := doRequest(s, http.MethodGet, "/api/transactions", "")
	var body struct {
		Data []core.Transaction `json:"data"`
	}
	decodeBody(t, rec, &body)
	for i := 1; i < len(body.Data); i++ {
		if body.Data[i-1].Date.Before(body.Data[i].Date) {
			t.Fatalf("response not sorted date-descending at index %d", i)
		}
	}
}

type erroringService struct{}

func (erroringService) List(context.Context, store.Query) ([]core.Transaction, error) {
	return nil, errors.New("backing store exploded")
}

func (erroringService) Create(context.Context, core.TransactionInput) (core.Transaction, error) {
	return core.Transaction{}, errors.New("backing store exploded")
}

func TestListStoreFailure(t *testing.T) {
	s := NewServer(":0", erroringService{}, Options{RateLimitPerMinute: 1000})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	rec := doRequest(s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Success || body.Error != "Failed to fetch transactions" {
		t.Errorf("body = %+v", body)
	}
}

func TestCreateStoreFailure(t *testing.T) {
	s := NewServer(":0", erroringService{}, Options{RateLimitPerMinute: 1000})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	rec := doRequest(s, http.MethodPost, "/api/transactions",
		createBody(10.0, "x", "food", "2024-01-01", "expense"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodDelete, "/api/transactions", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Errorf("Allow header = %q", allow)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("/readyz status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodGet, "/api/transactions", "")
	rec := doRequest(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("/metrics Content-Type = %q, want text/plain", ct)
	}
	body := rec.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"transaction_list_requests_total 1",
		"cache_misses_total 1",
		"uptime_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("/metrics output missing %q", metric)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/transactions", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	svc := services.NewTransactionService(store.NewMemory(), nil)
	s := NewServer(":0", svc, Options{RateLimitPerMinute: 2})
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	body := createBody(10.0, "x", "food", "2024-01-01", "expense")
	for i := 0; i < 2; i++ {
		if rec := doRequest(s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d, want 201", i+1, rec.Code)
		}
	}

	rec := doRequest(s, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	// Reads are not rate limited.
	if rec := doRequest(s, http.MethodGet, "/api/transactions", ""); rec.Code != http.StatusOK {
		t.Errorf("GET after limit status = %d, want 200", rec.Code)
	}
}

func TestSuspiciousRequestBlocked(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/transactions?category=../etc/passwd", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCreateInvalidatesListCache(t *testing.T) {
	s := newTestServer(t)

	// Prime the cache.
	doRequest(s, http.MethodGet, "/api/transactions", "")
	doRequest(s, http.MethodPost, "/api/transactions",
		createBody(10.0, "fresh", "food", "2024-01-01", "expense"))

	rec := doRequest(s, http.MethodGet, "/api/transactions", "")
	var body struct {
		Total int `json:"total"`
	}
	decodeBody(t, rec, &body)
	if body.Total != 1 {
		t.Errorf("total after create = %d, want 1 (stale cache served?)", body.Total)
	}
}

func TestPages(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target   string
		wantCode int
		contains string
	}{
		{"/dashboard", http.StatusOK, "Dashboard"},
		{"/manage-transaction", http.StatusOK, "Add Transaction"},
		{"/", http.StatusFound, ""},
		{"/no-such-page", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := doRequest(s, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestLimitAppliesBeforeSortOverHTTP(t *testing.T) {
	s := newTestServer(t)

	dates := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	for i, d := range dates {
		doRequest(s, http.MethodPost, "/api/transactions",
			createBody(10.0, fmt.Sprintf("tx-%d", i), "food", d, "expense"))
	}

	rec := doRequest(s, http.MethodGet, "/api/transactions?limit=2", "")
	var body struct {
		Data []core.Transaction `json:"data"`
	}
	decodeBody(t, rec, &body)
	if len(body.Data) != 2 {
		t.Fatalf("len = %d, want 2", len(body.Data))
	}
	if body.Data[0].Description != "tx-1" || body.Data[1].Description != "tx-0" {
		t.Errorf("page = %q, %q; want tx-1, tx-0",
			body.Data[0].Description, body.Data[1].Description)
	}
}
