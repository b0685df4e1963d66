package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a transaction query. Every set field is ANDed;
// soft-deleted rows never match.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *TransactionType
	Category   *string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	SearchTerm string
}

// Matches evaluates the filter against a single record in memory.
func (f TransactionFilter) Matches(t *Transaction) bool {
	if t.IsDeleted {
		return false
	}
	date := DateOnly(t.Date)
	if f.StartDate != nil && date.Before(DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && date.After(DateOnly(*f.EndDate)) {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Category != nil && (t.Category == nil || *t.Category != *f.Category) {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(term)) {
		return false
	}
	return true
}

// DateRange limits aggregations to an inclusive span of calendar days.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Filter() TransactionFilter {
	return TransactionFilter{StartDate: r.Start, EndDate: r.End}
}
