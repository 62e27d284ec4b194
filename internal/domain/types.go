package domain

import "strings"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Pagination carries paging params and totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination clamps limit to [1,500] and page to >= 1.
// A zero limit means "not provided" and falls back to the default.
func NewPagination(page, limit int) Pagination {
	switch {
	case limit == 0:
		limit = DefaultPageLimit
	case limit < 1:
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if page < 1 {
		page = 1
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// WithTotal fills total and the page count (ceil).
func (p Pagination) WithTotal(total int) Pagination {
	p.Total = total
	if p.Limit > 0 {
		p.Pages = (total + p.Limit - 1) / p.Limit
	}
	return p
}

// Sort defines sorting preference.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // asc / desc
}

func (s Sort) Desc() bool { return s.Direction == "desc" }

// ParseSort reads "field,-other" into sort clauses, preserving order.
func ParseSort(raw string) []Sort {
	out := []Sort{}
	for _, part := range strings.Split(raw, ",") {
		p := strings.TrimSpace(part)
		if p == "" || p == "-" {
			continue
		}
		if strings.HasPrefix(p, "-") {
			out = append(out, Sort{Field: p[1:], Direction: "desc"})
			continue
		}
		out = append(out, Sort{Field: strings.TrimPrefix(p, "+"), Direction: "asc"})
	}
	return out
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
