package dto

import (
	"errors"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type CreateTransactionRequest struct {
	Description   string           `json:"description" example:"Grocery Shopping"`
	Amount        *decimal.Decimal `json:"amount" swaggertype:"number" example:"120.5"`
	Type          string           `json:"type" example:"expense" enums:"income,expense,transfer"`
	Category      *string          `json:"category" example:"Food & Dining"`
	Date          string           `json:"date" example:"2023-04-05"`
	Note          *string          `json:"note"`
	IsRecurring   bool             `json:"isRecurring"`
	PaymentMethod *string          `json:"paymentMethod" example:"Credit Card"`
}

// ToDraft checks the wire-level fields and converts the request into a draft.
// Domain rules (lengths, allowed types) are enforced by the service.
func (r CreateTransactionRequest) ToDraft() (models.TransactionDraft, error) {
	if r.Amount == nil {
		return models.TransactionDraft{}, &service.ValidationError{Field: "amount", Message: "is required"}
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return models.TransactionDraft{}, &service.ValidationError{Field: "date", Message: err.Error()}
	}

	return models.TransactionDraft{
		Description:   r.Description,
		Amount:        *r.Amount,
		Type:          models.TransactionType(r.Type),
		Category:      r.Category,
		Date:          date,
		Note:          r.Note,
		IsRecurring:   r.IsRecurring,
		PaymentMethod: r.PaymentMethod,
	}, nil
}

// UpdateTransactionRequest carries a partial update. Omitted fields stay
// unchanged; null clears an optional field.
type UpdateTransactionRequest struct {
	Description   models.Optional[string]          `json:"description" swaggertype:"string"`
	Amount        models.Optional[decimal.Decimal] `json:"amount" swaggertype:"number"`
	Type          models.Optional[string]          `json:"type" swaggertype:"string"`
	Category      models.Optional[string]          `json:"category" swaggertype:"string"`
	Date          models.Optional[string]          `json:"date" swaggertype:"string"`
	Note          models.Optional[string]          `json:"note" swaggertype:"string"`
	IsRecurring   models.Optional[bool]            `json:"isRecurring" swaggertype:"boolean"`
	PaymentMethod models.Optional[string]          `json:"paymentMethod" swaggertype:"string"`
}

func (r UpdateTransactionRequest) ToPatch() (models.TransactionPatch, error) {
	patch := models.TransactionPatch{
		Description:   r.Description,
		Amount:        r.Amount,
		Category:      r.Category,
		Note:          r.Note,
		IsRecurring:   r.IsRecurring,
		PaymentMethod: r.PaymentMethod,
	}

	if r.Type.Set {
		patch.Type = models.Optional[models.TransactionType]{
			Value: models.TransactionType(r.Type.Value),
			Set:   true,
			Null:  r.Type.Null,
		}
	}

	switch {
	case r.Date.HasValue():
		date, err := ParseDate(r.Date.Value)
		if err != nil {
			return models.TransactionPatch{}, &service.ValidationError{Field: "date", Message: err.Error()}
		}
		patch.Date = models.Some(date)
	case r.Date.Set:
		patch.Date = models.Null[time.Time]()
	}

	return patch, nil
}

// ParseDate accepts a calendar date or a full RFC 3339 timestamp and keeps the day only.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("is required")
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return models.DateOnly(t), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return models.DateOnly(t), nil
	}
	return time.Time{}, errors.New("must be a date in YYYY-MM-DD format")
}

type TransactionResponse struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      *string `json:"category"`
	Date          string  `json:"date"`
	Note          *string `json:"note"`
	IsRecurring   bool    `json:"isRecurring"`
	PaymentMethod *string `json:"paymentMethod"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID.String(),
		Description:   tx.Description,
		Amount:        tx.Amount.InexactFloat64(),
		Type:          string(tx.Type),
		Category:      tx.Category,
		Date:          tx.Date.Format(DateLayout),
		Note:          tx.Note,
		IsRecurring:   tx.IsRecurring,
		PaymentMethod: tx.PaymentMethod,
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     tx.UpdatedAt.Format(time.RFC3339),
	}
}

func NewTransactionListResponse(transactions []*models.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		result[i] = NewTransactionResponse(tx)
	}
	return result
}
