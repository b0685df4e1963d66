package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionStore is the persistence contract shared by the PostgreSQL and
// in-memory repositories.
type TransactionStore interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, tx *models.Transaction) error
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)
	SumByType(ctx context.Context, txType models.TransactionType, dates models.DateRange) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, dates models.DateRange) ([]models.CategoryTotal, error)
}

// validate is safe for concurrent use.
var validate = validator.New()

type TransactionService struct {
	store  TransactionStore
	now    func() time.Time
	logger *zap.Logger
}

func NewTransactionService(store TransactionStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Create validates the draft and persists it with a fresh id and timestamps.
func (s *TransactionService) Create(ctx context.Context, draft models.TransactionDraft) (*models.Transaction, error) {
	draft = normalizeDraft(draft)
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	tx := s.newTransaction(draft, s.timestamp())
	if err := s.store.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("Transaction created",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", string(tx.Type)),
	)
	return tx, nil
}

// BulkCreate validates every draft before writing anything, then stores the
// whole batch atomically.
func (s *TransactionService) BulkCreate(ctx context.Context, drafts []models.TransactionDraft) ([]*models.Transaction, error) {
	now := s.timestamp()
	transactions := make([]*models.Transaction, 0, len(drafts))
	for i, draft := range drafts {
		draft = normalizeDraft(draft)
		if err := validateDraft(draft); err != nil {
			var ve *ValidationError
			errors.As(err, &ve)
			return nil, &RowValidationError{Row: i + 1, Field: ve.Field, Err: err}
		}
		transactions = append(transactions, s.newTransaction(draft, now))
	}

	if len(transactions) == 0 {
		return transactions, nil
	}

	if err := s.store.CreateBatch(ctx, transactions); err != nil {
		return nil, fmt.Errorf("failed to store transaction batch: %w", err)
	}

	s.logger.Info("Transaction batch created", zap.Int("count", len(transactions)))
	return transactions, nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return tx, nil
}

// Update merges the supplied fields onto the stored record. Absent fields are
// left unchanged; an explicit null clears optional fields.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, patch models.TransactionPatch) (*models.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	draft := tx.Draft()
	if err := applyPatch(&draft, patch); err != nil {
		return nil, err
	}
	draft = normalizeDraft(draft)
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	tx.Description = draft.Description
	tx.Amount = draft.Amount
	tx.Type = draft.Type
	tx.Category = draft.Category
	tx.Date = draft.Date
	tx.Note = draft.Note
	tx.IsRecurring = draft.IsRecurring
	tx.PaymentMethod = draft.PaymentMethod
	tx.UpdatedAt = laterOf(s.timestamp(), tx.CreatedAt)

	if err := s.store.Update(ctx, tx); err != nil {
		return nil, s.translate(err, id)
	}

	s.logger.Info("Transaction updated", zap.String("transaction_id", id.String()))
	return tx, nil
}

// Delete marks the transaction as deleted; the row is kept for auditing.
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SoftDelete(ctx, id, s.timestamp()); err != nil {
		return s.translate(err, id)
	}

	s.logger.Info("Transaction soft-deleted", zap.String("transaction_id", id.String()))
	return nil
}

func (s *TransactionService) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}

	transactions, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// ValidateFilter rejects inverted ranges and unknown types.
func ValidateFilter(filter models.TransactionFilter) error {
	if filter.Type != nil && !filter.Type.Valid() {
		return &ValidationError{Field: "type", Message: "must be one of income, expense, transfer"}
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return &ValidationError{Field: "startDate", Message: "must not be after endDate"}
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return &ValidationError{Field: "minAmount", Message: "must not exceed maxAmount"}
	}
	return nil
}

func (s *TransactionService) newTransaction(draft models.TransactionDraft, now time.Time) *models.Transaction {
	return &models.Transaction{
		ID:            uuid.New(),
		Description:   draft.Description,
		Amount:        draft.Amount,
		Type:          draft.Type,
		Category:      draft.Category,
		Date:          draft.Date,
		Note:          draft.Note,
		IsRecurring:   draft.IsRecurring,
		PaymentMethod: draft.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func validateDraft(draft models.TransactionDraft) error {
	if err := validate.Struct(draft); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return validationErrorFrom(fieldErrs[0])
		}
		return &ValidationError{Field: "transaction", Message: err.Error()}
	}
	if draft.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Message: "must not be negative"}
	}
	if draft.Amount.GreaterThanOrEqual(models.MaxAmount) {
		return &ValidationError{Field: "amount", Message: "must be less than " + models.MaxAmount.String()}
	}
	if draft.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	return nil
}

func validationErrorFrom(fe validator.FieldError) *ValidationError {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: "is required"}
	case "max":
		return &ValidationError{Field: field, Message: "must be at most " + fe.Param() + " characters"}
	case "oneof":
		return &ValidationError{Field: field, Message: "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")}
	default:
		return &ValidationError{Field: field, Message: "failed " + fe.Tag() + " check"}
	}
}

func (s *TransactionService) translate(err error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// timestamp truncates to the precision PostgreSQL keeps.
func (s *TransactionService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func normalizeDraft(draft models.TransactionDraft) models.TransactionDraft {
	draft.Description = sanitizeUTF8(strings.TrimSpace(draft.Description))
	draft.Amount = draft.Amount.Round(2)
	if !draft.Date.IsZero() {
		draft.Date = models.DateOnly(draft.Date)
	}
	draft.Category = blankToNil(draft.Category)
	draft.Note = blankToNil(draft.Note)
	draft.PaymentMethod = blankToNil(draft.PaymentMethod)
	return draft
}

func applyPatch(draft *models.TransactionDraft, patch models.TransactionPatch) error {
	required := func(field string, set, null bool) error {
		if set && null {
			return &ValidationError{Field: field, Message: "cannot be null"}
		}
		return nil
	}
	for _, check := range []error{
		required("description", patch.Description.Set, patch.Description.Null),
		required("amount", patch.Amount.Set, patch.Amount.Null),
		required("type", patch.Type.Set, patch.Type.Null),
		required("date", patch.Date.Set, patch.Date.Null),
		required("isRecurring", patch.IsRecurring.Set, patch.IsRecurring.Null),
	} {
		if check != nil {
			return check
		}
	}

	if patch.Description.Set {
		draft.Description = patch.Description.Value
	}
	if patch.Amount.Set {
		draft.Amount = patch.Amount.Value
	}
	if patch.Type.Set {
		draft.Type = patch.Type.Value
	}
	if patch.Date.Set {
		draft.Date = patch.Date.Value
	}
	if patch.IsRecurring.Set {
		draft.IsRecurring = patch.IsRecurring.Value
	}
	if patch.Category.Set {
		draft.Category = patch.Category.Ptr()
	}
	if patch.Note.Set {
		draft.Note = patch.Note.Ptr()
	}
	if patch.PaymentMethod.Set {
		draft.PaymentMethod = patch.PaymentMethod.Ptr()
	}
	return nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
