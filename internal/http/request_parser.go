package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budget/internal/core"
	"budget/internal/store"
)

// ParseListQuery extracts the list filters from URL query parameters.
// An absent or unusable limit means no limit. Type and category are
// passed through verbatim, the store matches them exactly.
func ParseListQuery(query url.Values) store.Query {
	q := store.Query{
		Type:     core.TransactionType(strings.TrimSpace(query.Get("type"))),
		Category: strings.TrimSpace(query.Get("category")),
	}

	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Limit = n
		}
	}

	return q
}

// DecodeTransactionInput reads the request body as a JSON transaction
// input. A body that is not valid JSON for the expected shape is a
// decode error, distinct from the field validation the core does.
func DecodeTransactionInput(r *http.Request) (core.TransactionInput, error) {
	var in core.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return core.TransactionInput{}, err
	}
	return in, nil
}
