package dto

import (
	"errors"

	"fintrack/internal/models"
	"fintrack/internal/service"

	"github.com/google/uuid"
)

// ImportResponse is returned by both the JSON bulk import and the CSV upload.
type ImportResponse struct {
	Message string   `json:"message,omitempty" example:"Successfully imported 5 transactions"`
	Count   int      `json:"count" example:"5"`
	IDs     []string `json:"ids"`
}

func NewImportResponse(message string, ids []uuid.UUID) ImportResponse {
	resp := ImportResponse{Message: message, Count: len(ids), IDs: make([]string, len(ids))}
	for i, id := range ids {
		resp.IDs[i] = id.String()
	}
	return resp
}

// ToDrafts converts a bulk request. The first bad element fails the whole
// batch and is reported by its 1-based position.
func ToDrafts(requests []CreateTransactionRequest) ([]models.TransactionDraft, error) {
	drafts := make([]models.TransactionDraft, 0, len(requests))
	for i, req := range requests {
		draft, err := req.ToDraft()
		if err != nil {
			rowErr := &service.RowValidationError{Row: i + 1, Err: err}
			var ve *service.ValidationError
			if errors.As(err, &ve) {
				rowErr.Field = ve.Field
			}
			return nil, rowErr
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}
