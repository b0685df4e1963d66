package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubDB hands out a single recording transaction; other pool methods are unused.
type stubDB struct {
	DB
	tx *recordingTx
}

func (d *stubDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

// recordingTx fails the insert with index failAt (1-based, 0 never fails).
type recordingTx struct {
	pgx.Tx
	failAt     int
	argCounts  []int
	committed  bool
	rolledBack bool
}

func (tx *recordingTx) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	tx.argCounts = append(tx.argCounts, len(args))
	if len(tx.argCounts) == tx.failAt {
		return nil, errors.New("numeric field overflow")
	}
	return emptyRows{}, nil
}

func (tx *recordingTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *recordingTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type emptyRows struct{ pgx.Rows }

func (emptyRows) Next() bool { return false }
func (emptyRows) Err() error { return nil }
func (emptyRows) Close()     {}

func batchOf(n int) []*models.Transaction {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*models.Transaction, n)
	for i := range out {
		out[i] = &models.Transaction{
			ID:          uuid.New(),
			Description: "Coffee",
			Amount:      decimal.RequireFromString("3.50"),
			Type:        models.TransactionTypeExpense,
			Date:        now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return out
}

func TestCreateBatch_CommitsAllChunks(t *testing.T) {
	tx := &recordingTx{}
	repo := NewTransactionRepository(&stubDB{tx: tx}, zap.NewNop())

	require.NoError(t, repo.CreateBatch(context.Background(), batchOf(insertChunkSize+1)))

	perRow := len(insertColumns)
	assert.Equal(t, []int{insertChunkSize * perRow, perRow}, tx.argCounts)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestCreateBatch_FailingChunkRollsBackEarlierChunks(t *testing.T) {
	tx := &recordingTx{failAt: 2}
	repo := NewTransactionRepository(&stubDB{tx: tx}, zap.NewNop())

	err := repo.CreateBatch(context.Background(), batchOf(insertChunkSize*2+5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric field overflow")

	assert.Len(t, tx.argCounts, 2, "no chunk is sent after a failure")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestCreateBatch_EmptyNeverBegins(t *testing.T) {
	repo := NewTransactionRepository(&stubDB{}, zap.NewNop())
	assert.NoError(t, repo.CreateBatch(context.Background(), nil))
}
