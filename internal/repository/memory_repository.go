package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrDuplicateID = errors.New("duplicate transaction id")

// MemoryTransactionRepository keeps transactions in process memory. It mirrors
// TransactionRepository, including soft-delete and insertion ordering.
type MemoryTransactionRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Transaction
	nextSeq int64
	logger  *zap.Logger
}

func NewMemoryTransactionRepository(logger *zap.Logger) *MemoryTransactionRepository {
	return &MemoryTransactionRepository{
		records: make(map[uuid.UUID]*models.Transaction),
		logger:  logger,
	}
}

func (r *MemoryTransactionRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.CreateBatch(ctx, []*models.Transaction{tx})
}

func (r *MemoryTransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(transactions))
	for _, tx := range transactions {
		if _, ok := r.records[tx.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
		}
		if _, ok := seen[tx.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}

	for _, tx := range transactions {
		r.nextSeq++
		tx.Seq = r.nextSeq
		r.records[tx.ID] = cloneTransaction(tx)
	}
	return nil
}

func (r *MemoryTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.records[id]
	if !ok || tx.IsDeleted {
		return nil, ErrNotFound
	}
	return cloneTransaction(tx), nil
}

func (r *MemoryTransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[tx.ID]
	if !ok || existing.IsDeleted {
		return ErrNotFound
	}

	updated := cloneTransaction(tx)
	updated.Seq = existing.Seq
	updated.CreatedAt = existing.CreatedAt
	updated.IsDeleted = false
	r.records[tx.ID] = updated
	return nil
}

func (r *MemoryTransactionRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.records[id]
	if !ok || tx.IsDeleted {
		return ErrNotFound
	}
	tx.IsDeleted = true
	if at.After(tx.CreatedAt) {
		tx.UpdatedAt = at
	} else {
		tx.UpdatedAt = tx.CreatedAt
	}
	return nil
}

func (r *MemoryTransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.matching(filter), nil
}

func (r *MemoryTransactionRepository) SumByType(ctx context.Context, txType models.TransactionType, dates models.DateRange) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := dates.Filter()
	filter.Type = &txType

	total := decimal.Zero
	for _, tx := range r.matching(filter) {
		total = total.Add(tx.Amount)
	}
	return total, nil
}

func (r *MemoryTransactionRepository) SumByCategory(ctx context.Context, dates models.DateRange) ([]models.CategoryTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := dates.Filter()
	expense := models.TransactionTypeExpense
	filter.Type = &expense

	sums := make(map[string]decimal.Decimal)
	for _, tx := range r.matching(filter) {
		label := tx.CategoryOrDefault()
		sums[label] = sums[label].Add(tx.Amount)
	}

	totals := make([]models.CategoryTotal, 0, len(sums))
	for category, total := range sums {
		totals = append(totals, models.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

// matching must be called with r.mu held.
func (r *MemoryTransactionRepository) matching(filter models.TransactionFilter) []*models.Transaction {
	result := make([]*models.Transaction, 0)
	for _, tx := range r.records {
		if filter.Matches(tx) {
			result = append(result, cloneTransaction(tx))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].Seq < result[j].Seq
	})
	return result
}

func cloneTransaction(tx *models.Transaction) *models.Transaction {
	c := *tx
	c.Category = cloneString(tx.Category)
	c.Note = cloneString(tx.Note)
	c.PaymentMethod = cloneString(tx.PaymentMethod)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
