package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ContextKey namespaces the request-scoped values the JWT middleware
// stores (userId and friends).
type ContextKey string

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

func GetPaginationParams(r *http.Request) (int, int) {
	page := defaultPage
	limit := defaultLimit

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

var sortableColumns = map[string]string{
	"start_date": "t.start_date",
	"amount":     "t.amount",
	"title":      "t.title",
	"created_at": "t.created_at",
}

// AddSorting maps the request's sortBy/sortOrder parameters onto a safe
// ORDER BY expression; anything outside the whitelist falls back to the
// given default ordering.
func AddSorting(r *http.Request, fallback string) string {
	column, ok := sortableColumns[r.URL.Query().Get("sortBy")]
	if !ok {
		return fallback
	}

	order := "ASC"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		order = "DESC"
	}
	return fmt.Sprintf("%s %s", column, order)
}
