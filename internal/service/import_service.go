package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	columnDate        = "date"
	columnDescription = "description"
	columnAmount      = "amount"
)

var requiredColumns = []string{columnDate, columnDescription, columnAmount}

// dateLayouts are tried in order; ISO dates first, then US month-first forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type ImportResult struct {
	Count int
	IDs   []uuid.UUID
}

type ImportService struct {
	transactions *TransactionService
	logger       *zap.Logger
}

func NewImportService(transactions *TransactionService, logger *zap.Logger) *ImportService {
	return &ImportService{
		transactions: transactions,
		logger:       logger,
	}
}

// ImportCSV parses the document and stores every row as one atomic batch.
// A single bad row rejects the whole document.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	drafts, err := ParseCSV(r)
	if err != nil {
		s.logger.Warn("CSV import rejected", zap.Error(err))
		return nil, err
	}

	created, err := s.transactions.BulkCreate(ctx, drafts)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Count: len(created), IDs: make([]uuid.UUID, len(created))}
	for i, tx := range created {
		result.IDs[i] = tx.ID
	}

	s.logger.Info("CSV import completed", zap.Int("count", result.Count))
	return result, nil
}

// ParseCSV turns a CSV document with a header row into transaction drafts.
func ParseCSV(r io.Reader) ([]models.TransactionDraft, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Reason: "document is empty"}
	}
	if err != nil {
		return nil, &ParseError{Reason: "malformed header", Err: err}
	}

	columns := indexHeader(header)
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Reason: "missing required columns: " + strings.Join(missing, ", ")}
	}

	drafts := make([]models.TransactionDraft, 0)
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "malformed row", Err: err}
		}
		if isBlankRecord(record) {
			continue
		}

		row++
		line, _ := reader.FieldPos(0)
		draft, err := rowToDraft(record, columns)
		if err != nil {
			var rowErr *RowValidationError
			if errors.As(err, &rowErr) {
				rowErr.Row = row
				rowErr.Line = line
			}
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}

func rowToDraft(record []string, columns map[string]int) (models.TransactionDraft, error) {
	rawAmount := record[columns[columnAmount]]
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return models.TransactionDraft{}, &RowValidationError{Field: columnAmount, Value: rawAmount, Err: err}
	}

	rawDate := record[columns[columnDate]]
	date, err := ParseDate(rawDate)
	if err != nil {
		return models.TransactionDraft{}, &RowValidationError{Field: columnDate, Value: rawDate, Err: err}
	}

	description := sanitizeUTF8(strings.TrimSpace(record[columns[columnDescription]]))
	if description == "" {
		return models.TransactionDraft{}, &RowValidationError{Field: columnDescription, Err: errors.New("description is required")}
	}

	txType := models.TransactionTypeIncome
	if amount.IsNegative() {
		txType = models.TransactionTypeExpense
	}
	category := DetectCategory(description)

	draft := normalizeDraft(models.TransactionDraft{
		Description: description,
		Amount:      amount.Abs(),
		Type:        txType,
		Category:    &category,
		Date:        date,
		IsRecurring: false,
	})
	if err := validateDraft(draft); err != nil {
		rowErr := &RowValidationError{Err: err}
		var ve *ValidationError
		if errors.As(err, &ve) {
			rowErr.Field = ve.Field
			if idx, ok := columns[ve.Field]; ok {
				rowErr.Value = record[idx]
			}
		}
		return models.TransactionDraft{}, rowErr
	}
	return draft, nil
}

// ParseAmount keeps digits, dots and a leading minus sign, then parses the
// remainder as a decimal. "$-1,234.50" yields -1234.50.
func ParseAmount(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("no numeric value in %q", raw)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", raw)
	}
	return amount, nil
}

// ParseDate accepts common calendar date layouts and drops any time of day.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}
	return columns
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
