package models

import (
	"errors"
	"strings"
)

// SortOrder controls the direction of a chronological listing
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

var ErrInvalidSortOrder = errors.New("sort order must be asc or desc")

// ParseSortOrder accepts "asc" or "desc" in any case; empty means ascending
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortAscending:
		return SortAscending, nil
	case SortDescending:
		return SortDescending, nil
	default:
		return "", ErrInvalidSortOrder
	}
}

// TransactionFilters contains filtering options for transaction queries
type TransactionFilters struct {
	Order SortOrder
	// Type narrows the listing to a single transaction type when set
	Type TransactionType
}
