package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// UncategorizedLabel stands in for a missing category in aggregations.
const UncategorizedLabel = "Uncategorized"

// MaxAmount is the exclusive upper bound of the NUMERIC(10,2) amount column.
var MaxAmount = decimal.New(1, 8)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

type Transaction struct {
	ID            uuid.UUID       `db:"id"`
	Seq           int64           `db:"seq"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"`
	Type          TransactionType `db:"type"`
	Category      *string         `db:"category"`
	Date          time.Time       `db:"date"`
	Note          *string         `db:"note"`
	IsRecurring   bool            `db:"is_recurring"`
	PaymentMethod *string         `db:"payment_method"`
	IsDeleted     bool            `db:"is_deleted"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// CategoryOrDefault returns the category label used for grouping.
func (t *Transaction) CategoryOrDefault() string {
	if t.Category == nil || *t.Category == "" {
		return UncategorizedLabel
	}
	return *t.Category
}

// TransactionDraft is an unpersisted transaction awaiting validation and id assignment.
type TransactionDraft struct {
	Description   string          `validate:"required,max=255"`
	Amount        decimal.Decimal
	Type          TransactionType `validate:"required,oneof=income expense transfer"`
	Category      *string         `validate:"omitempty,max=100"`
	Date          time.Time       `validate:"required"`
	Note          *string         `validate:"omitempty,max=255"`
	IsRecurring   bool
	PaymentMethod *string         `validate:"omitempty,max=100"`
}

// TransactionPatch describes a partial update; absent fields are left untouched.
type TransactionPatch struct {
	Description   Optional[string]
	Amount        Optional[decimal.Decimal]
	Type          Optional[TransactionType]
	Category      Optional[string]
	Date          Optional[time.Time]
	Note          Optional[string]
	IsRecurring   Optional[bool]
	PaymentMethod Optional[string]
}

// Draft returns the mutable fields of t.
func (t *Transaction) Draft() TransactionDraft {
	return TransactionDraft{
		Description:   t.Description,
		Amount:        t.Amount,
		Type:          t.Type,
		Category:      t.Category,
		Date:          t.Date,
		Note:          t.Note,
		IsRecurring:   t.IsRecurring,
		PaymentMethod: t.PaymentMethod,
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Summary is the aggregate view of a working set of transactions.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	Count        int
	Categories   []CategoryTotal
}

type CategoryTotal struct {
	Category   string
	Total      decimal.Decimal
	Percentage decimal.Decimal
}
