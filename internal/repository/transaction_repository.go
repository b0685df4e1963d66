package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no live (non-deleted) row matches.
var ErrNotFound = errors.New("record not found")

// insertChunkSize keeps multi-row inserts under the 65535 bind parameter limit.
const insertChunkSize = 1000

var transactionColumns = []string{
	"id", "seq", "description", "amount", "type", "category", "date",
	"note", "is_recurring", "payment_method", "is_deleted", "created_at", "updated_at",
}

var insertColumns = []string{
	"id", "description", "amount", "type", "category", "date",
	"note", "is_recurring", "payment_method", "is_deleted", "created_at", "updated_at",
}

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type TransactionRepository struct {
	db     DB
	logger *zap.Logger
}

func NewTransactionRepository(db DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(insertColumns...).
		Values(insertValues(tx)...).
		Suffix("RETURNING seq").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&tx.Seq)
}

// CreateBatch inserts every transaction inside one database transaction:
// either all rows are committed or none are.
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	for start := 0; start < len(transactions); start += insertChunkSize {
		end := min(start+insertChunkSize, len(transactions))
		if err := r.insertChunk(ctx, dbTx, transactions[start:end]); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	r.logger.Debug("Transaction batch stored", zap.Int("count", len(transactions)))
	return nil
}

func (r *TransactionRepository) insertChunk(ctx context.Context, dbTx pgx.Tx, chunk []*models.Transaction) error {
	builder := squirrel.Insert("transactions").
		Columns(insertColumns...).
		Suffix("RETURNING id, seq").
		PlaceholderFormat(squirrel.Dollar)

	byID := make(map[uuid.UUID]*models.Transaction, len(chunk))
	for _, tx := range chunk {
		builder = builder.Values(insertValues(tx)...)
		byID[tx.ID] = tx
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	rows, err := dbTx.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uuid.UUID
			seq int64
		)
		if err := rows.Scan(&id, &seq); err != nil {
			return err
		}
		if tx, ok := byID[id]; ok {
			tx.Seq = seq
		}
	}
	return rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		SetMap(map[string]interface{}{
			"description":    tx.Description,
			"amount":         toNumeric(tx.Amount),
			"type":           string(tx.Type),
			"category":       tx.Category,
			"date":           tx.Date,
			"note":           tx.Note,
			"is_recurring":   tx.IsRecurring,
			"payment_method": tx.PaymentMethod,
			"updated_at":     tx.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": tx.ID, "is_deleted": false}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execAffectingOne(ctx, query)
}

func (r *TransactionRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := squirrel.Update("transactions").
		Set("is_deleted", true).
		Set("updated_at", squirrel.Expr("GREATEST(created_at, ?)", at)).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execAffectingOne(ctx, query)
}

func (r *TransactionRepository) execAffectingOne(ctx context.Context, query squirrel.UpdateBuilder) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	sql, args, err := buildListQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) SumByType(ctx context.Context, txType models.TransactionType, dates models.DateRange) (decimal.Decimal, error) {
	sql, args, err := buildSumByTypeQuery(txType, dates).ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var total pgtype.Numeric
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return fromNumeric(total), nil
}

func (r *TransactionRepository) SumByCategory(ctx context.Context, dates models.DateRange) ([]models.CategoryTotal, error) {
	sql, args, err := buildSumByCategoryQuery(dates).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]models.CategoryTotal, 0)
	for rows.Next() {
		var (
			category string
			total    pgtype.Numeric
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		totals = append(totals, models.CategoryTotal{Category: category, Total: fromNumeric(total)})
	}

	return totals, rows.Err()
}

func buildListQuery(filter models.TransactionFilter) squirrel.SelectBuilder {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		PlaceholderFormat(squirrel.Dollar)

	return applyFilter(query, filter).OrderBy("date DESC", "seq ASC")
}

func buildSumByTypeQuery(txType models.TransactionType, dates models.DateRange) squirrel.SelectBuilder {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"type": string(txType), "is_deleted": false}).
		PlaceholderFormat(squirrel.Dollar)

	return applyDateRange(query, dates)
}

func buildSumByCategoryQuery(dates models.DateRange) squirrel.SelectBuilder {
	query := squirrel.Select(
		"COALESCE(NULLIF(category, ''), '"+models.UncategorizedLabel+"') AS category_label",
		"SUM(amount) AS total",
	).
		From("transactions").
		Where(squirrel.Eq{"type": string(models.TransactionTypeExpense), "is_deleted": false}).
		PlaceholderFormat(squirrel.Dollar)

	return applyDateRange(query, dates).
		GroupBy("category_label").
		OrderBy("total DESC", "category_label ASC")
}

func insertValues(tx *models.Transaction) []interface{} {
	return []interface{}{
		tx.ID, tx.Description, toNumeric(tx.Amount), string(tx.Type), tx.Category, tx.Date,
		tx.Note, tx.IsRecurring, tx.PaymentMethod, tx.IsDeleted, tx.CreatedAt, tx.UpdatedAt,
	}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		tx     models.Transaction
		amount pgtype.Numeric
		txType string
	)
	if err := row.Scan(
		&tx.ID, &tx.Seq, &tx.Description, &amount, &txType, &tx.Category, &tx.Date,
		&tx.Note, &tx.IsRecurring, &tx.PaymentMethod, &tx.IsDeleted, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tx.Amount = fromNumeric(amount)
	tx.Type = models.TransactionType(txType)
	tx.Date = models.DateOnly(tx.Date)
	return &tx, nil
}
