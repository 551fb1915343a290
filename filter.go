package debtbook

import (
	"fmt"
	"strings"
)

// Filter narrows client views by a free-text query: a view is kept when its
// name or any of its entries' comments contains the query, case-insensitively.
// A blank query returns the input unchanged.
func Filter(items []ClientView, query string) []ClientView {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	kept := make([]ClientView, 0, len(items))
	for _, v := range items {
		if matches(v, query) {
			kept = append(kept, v)
		}
	}
	return kept
}

func matches(v ClientView, query string) bool {
	if strings.Contains(strings.ToLower(v.Name), query) {
		return true
	}
	for _, t := range v.Entries {
		if strings.Contains(strings.ToLower(t.Comment), query) {
			return true
		}
	}
	return false
}

// StatusFilter selects client views by lifecycle status.
type StatusFilter string

const (
	StatusActive  StatusFilter = "active"  // not archived (the default view)
	StatusOverdue StatusFilter = "overdue" // due date passed, balance positive
	StatusClosed  StatusFilter = "closed"  // archived
	StatusAll     StatusFilter = "all"
)

// ParseStatusFilter validates a status filter name.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case StatusActive, StatusOverdue, StatusClosed, StatusAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status filter %q", s)
	}
}

// ByStatus keeps the views matching the status filter.
func ByStatus(items []ClientView, status StatusFilter) []ClientView {
	if status == StatusAll || status == "" {
		return items
	}
	kept := make([]ClientView, 0, len(items))
	for _, v := range items {
		switch status {
		case StatusClosed:
			if v.Archived {
				kept = append(kept, v)
			}
		case StatusOverdue:
			if v.Overdue {
				kept = append(kept, v)
			}
		default: // active
			if !v.Archived {
				kept = append(kept, v)
			}
		}
	}
	return kept
}
