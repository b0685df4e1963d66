package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*TransactionService, *repository.MemoryTransactionRepository) {
	t.Helper()
	repo := repository.NewMemoryTransactionRepository(zap.NewNop())
	svc := NewTransactionService(repo, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func validDraft() models.TransactionDraft {
	return models.TransactionDraft{
		Description:   "Grocery Shopping",
		Amount:        decimal.RequireFromString("120.50"),
		Type:          models.TransactionTypeExpense,
		Category:      strPtr("Food & Dining"),
		Date:          date("2023-04-05"),
		PaymentMethod: strPtr("Credit Card"),
	}
}

func TestTransactionService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, fixedNow, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grocery Shopping", got.Description)
	assert.True(t, decimal.RequireFromString("120.5").Equal(got.Amount))
	assert.Equal(t, models.TransactionTypeExpense, got.Type)
	assert.Equal(t, "Food & Dining", *got.Category)
	assert.Equal(t, date("2023-04-05"), got.Date)
	assert.Nil(t, got.Note)
	assert.False(t, got.IsRecurring)
	assert.Equal(t, "Credit Card", *got.PaymentMethod)
	assert.False(t, got.IsDeleted)
}

func TestTransactionService_CreateNormalizes(t *testing.T) {
	svc, _ := newTestService(t)

	draft := validDraft()
	draft.Description = "  Coffee  "
	draft.Amount = decimal.RequireFromString("3.456")
	draft.Category = strPtr("   ")
	draft.Date = time.Date(2023, 4, 5, 18, 45, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", created.Description)
	assert.Equal(t, "3.46", created.Amount.StringFixed(2))
	assert.Nil(t, created.Category)
	assert.Equal(t, date("2023-04-05"), created.Date)
}

func TestTransactionService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *models.TransactionDraft)
		field string
	}{
		{name: "empty description", edit: func(d *models.TransactionDraft) { d.Description = "   " }, field: "description"},
		{name: "description too long", edit: func(d *models.TransactionDraft) { d.Description = strings.Repeat("x", 256) }, field: "description"},
		{name: "negative amount", edit: func(d *models.TransactionDraft) { d.Amount = decimal.RequireFromString("-1") }, field: "amount"},
		{name: "amount beyond column precision", edit: func(d *models.TransactionDraft) { d.Amount = decimal.RequireFromString("123456789012.34") }, field: "amount"},
		{name: "amount at limit", edit: func(d *models.TransactionDraft) { d.Amount = decimal.NewFromInt(100000000) }, field: "amount"},
		{name: "amount rounding up to limit", edit: func(d *models.TransactionDraft) { d.Amount = decimal.RequireFromString("99999999.995") }, field: "amount"},
		{name: "unknown type", edit: func(d *models.TransactionDraft) { d.Type = "refund" }, field: "type"},
		{name: "missing type", edit: func(d *models.TransactionDraft) { d.Type = "" }, field: "type"},
		{name: "missing date", edit: func(d *models.TransactionDraft) { d.Date = time.Time{} }, field: "date"},
		{name: "category too long", edit: func(d *models.TransactionDraft) { d.Category = strPtr(strings.Repeat("c", 101)) }, field: "category"},
		{name: "note too long", edit: func(d *models.TransactionDraft) { d.Note = strPtr(strings.Repeat("n", 256)) }, field: "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			draft := validDraft()
			tt.edit(&draft)

			_, err := svc.Create(context.Background(), draft)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			list, err := repo.List(context.Background(), models.TransactionFilter{})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestTransactionService_GetMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)

	later := fixedNow.Add(time.Hour)
	svc.now = func() time.Time { return later }

	updated, err := svc.Update(ctx, created.ID, models.TransactionPatch{
		Description: models.Some("Weekly groceries"),
		Category:    models.Null[string](),
		IsRecurring: models.Some(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Weekly groceries", updated.Description)
	assert.Nil(t, updated.Category)
	assert.True(t, updated.IsRecurring)
	// Untouched fields survive.
	assert.True(t, created.Amount.Equal(updated.Amount))
	assert.Equal(t, "Credit Card", *updated.PaymentMethod)
	assert.Equal(t, fixedNow, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly groceries", got.Description)
	assert.Nil(t, got.Category)
}

func TestTransactionService_UpdateNeverMovesUpdatedAtBeforeCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(-time.Hour) }
	updated, err := svc.Update(ctx, created.ID, models.TransactionPatch{Note: models.Some("clock skew")})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestTransactionService_UpdateRejects(t *testing.T) {
	tests := []struct {
		name  string
		patch models.TransactionPatch
		field string
	}{
		{name: "null description", patch: models.TransactionPatch{Description: models.Null[string]()}, field: "description"},
		{name: "null amount", patch: models.TransactionPatch{Amount: models.Null[decimal.Decimal]()}, field: "amount"},
		{name: "blank description", patch: models.TransactionPatch{Description: models.Some("  ")}, field: "description"},
		{name: "negative amount", patch: models.TransactionPatch{Amount: models.Some(decimal.NewFromInt(-5))}, field: "amount"},
		{name: "oversized amount", patch: models.TransactionPatch{Amount: models.Some(decimal.NewFromInt(250000000))}, field: "amount"},
		{name: "invalid type", patch: models.TransactionPatch{Type: models.Some(models.TransactionType("gift"))}, field: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _ := newTestService(t)
			created, err := svc.Create(ctx, validDraft())
			require.NoError(t, err)

			_, err = svc.Update(ctx, created.ID, tt.patch)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			got, err := svc.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.Description, got.Description)
		})
	}
}

func TestTransactionService_UpdateMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Update(context.Background(), uuid.New(), models.TransactionPatch{Note: models.Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionService_SoftDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	created, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Update(ctx, created.ID, models.TransactionPatch{Note: models.Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)

	// Aggregations skip it as well.
	total, err := repo.SumByType(ctx, models.TransactionTypeExpense, models.DateRange{})
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestTransactionService_BulkCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	drafts := []models.TransactionDraft{validDraft(), validDraft(), validDraft()}
	drafts[2].Type = "bogus"

	_, err := svc.BulkCreate(ctx, drafts)
	var rowErr *RowValidationError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Equal(t, "type", rowErr.Field)

	list, err := svc.List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionService_CreateAcceptsLargestAmount(t *testing.T) {
	svc, _ := newTestService(t)
	draft := validDraft()
	draft.Amount = decimal.RequireFromString("99999999.99")

	created, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", created.Amount.StringFixed(2))
}

func TestTransactionService_BulkCreateRejectsOversizedAmount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	drafts := []models.TransactionDraft{validDraft(), validDraft()}
	drafts[1].Amount = decimal.NewFromInt(100000000)

	_, err := svc.BulkCreate(ctx, drafts)
	var rowErr *RowValidationError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "amount", rowErr.Field)

	list, err := svc.List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionService_BulkCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.BulkCreate(ctx, []models.TransactionDraft{validDraft(), validDraft()})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	list, err := svc.List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Same date: insertion order decides.
	assert.Equal(t, created[0].ID, list[0].ID)
	assert.Equal(t, created[1].ID, list[1].ID)

	empty, err := svc.BulkCreate(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactionService_ListAmountRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, tc := range []struct {
		amount string
		txType models.TransactionType
	}{
		{"50", models.TransactionTypeExpense},
		{"100", models.TransactionTypeIncome},
		{"250", models.TransactionTypeExpense},
		{"500", models.TransactionTypeTransfer},
		{"500.01", models.TransactionTypeIncome},
	} {
		d := validDraft()
		d.Amount = decimal.RequireFromString(tc.amount)
		d.Type = tc.txType
		_, err := svc.Create(ctx, d)
		require.NoError(t, err)
	}

	minAmount := decimal.NewFromInt(100)
	maxAmount := decimal.NewFromInt(500)
	list, err := svc.List(ctx, models.TransactionFilter{MinAmount: &minAmount, MaxAmount: &maxAmount})
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, tx := range list {
		assert.True(t, tx.Amount.GreaterThanOrEqual(minAmount))
		assert.True(t, tx.Amount.LessThanOrEqual(maxAmount))
	}
}

func TestValidateFilter(t *testing.T) {
	early, late := date("2024-01-01"), date("2024-02-01")
	low, high := decimal.NewFromInt(10), decimal.NewFromInt(20)
	bogus := models.TransactionType("bogus")

	tests := []struct {
		name   string
		filter models.TransactionFilter
		field  string
	}{
		{name: "valid", filter: models.TransactionFilter{StartDate: &early, EndDate: &late, MinAmount: &low, MaxAmount: &high}},
		{name: "single bound", filter: models.TransactionFilter{EndDate: &early}},
		{name: "inverted dates", filter: models.TransactionFilter{StartDate: &late, EndDate: &early}, field: "startDate"},
		{name: "inverted amounts", filter: models.TransactionFilter{MinAmount: &high, MaxAmount: &low}, field: "minAmount"},
		{name: "unknown type", filter: models.TransactionFilter{Type: &bogus}, field: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilter(tt.filter)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
