package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"budget/internal/core"
	"budget/internal/store"
)

type pageData struct {
	Title             string
	ExpenseCategories []core.Category
	IncomeCategories  []core.Category
}

func newPageData(title string) pageData {
	data := pageData{Title: title}
	for _, c := range core.Catalog() {
		switch c.Type {
		case core.Expense:
			data.ExpenseCategories = append(data.ExpenseCategories, c)
		case core.Income:
			data.IncomeCategories = append(data.IncomeCategories, c)
		}
	}
	return data
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "dashboard.html", newPageData("Dashboard"))
}

func (s *Server) handleManageTransaction(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "manage.html", newPageData("Manage Transaction"))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed",
			"error", err,
			"template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The store is in-process, so readiness is a cheap list probe.
	if _, err := s.service.List(r.Context(), store.Query{Limit: 1}); err != nil {
		slog.ErrorContext(r.Context(), "Readiness probe failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes application and security metrics in plain text
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	limiterMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	listRequests := atomic.LoadInt64(&s.metrics.listRequests)
	createRequests := atomic.LoadInt64(&s.metrics.createRequests)
	validationFailures := atomic.LoadInt64(&s.metrics.validationFailures)
	cacheHits := atomic.LoadInt64(&s.metrics.cacheHits)
	cacheMisses := atomic.LoadInt64(&s.metrics.cacheMisses)
	uptime := time.Since(s.startedAt)

	w.WriteHeader(http.StatusOK)

	// Prometheus-like format
	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP transaction_list_requests_total Total transaction list requests\n")
	fmt.Fprintf(w, "# TYPE transaction_list_requests_total counter\n")
	fmt.Fprintf(w, "transaction_list_requests_total %d\n\n", listRequests)

	fmt.Fprintf(w, "# HELP transaction_create_requests_total Total transaction create requests\n")
	fmt.Fprintf(w, "# TYPE transaction_create_requests_total counter\n")
	fmt.Fprintf(w, "transaction_create_requests_total %d\n\n", createRequests)

	fmt.Fprintf(w, "# HELP transaction_validation_failures_total Total rejected transaction inputs\n")
	fmt.Fprintf(w, "# TYPE transaction_validation_failures_total counter\n")
	fmt.Fprintf(w, "transaction_validation_failures_total %d\n\n", validationFailures)

	fmt.Fprintf(w, "# HELP cache_hits_total Total cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n\n", cacheHits)

	fmt.Fprintf(w, "# HELP cache_misses_total Total cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n\n", cacheMisses)

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries{type=\"list\"} %d\n\n", s.listCache.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", limiterMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", limiterMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
