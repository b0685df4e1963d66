package service

import (
	"context"
	"fmt"
	"sort"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type AnalyticsService struct {
	store  TransactionStore
	logger *zap.Logger
}

func NewAnalyticsService(store TransactionStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		logger: logger,
	}
}

// TotalByType sums the amounts of live transactions of one type; zero when none match.
func (s *AnalyticsService) TotalByType(ctx context.Context, txType models.TransactionType, dates models.DateRange) (decimal.Decimal, error) {
	if !txType.Valid() {
		return decimal.Zero, &ValidationError{Field: "type", Message: "must be one of income, expense, transfer"}
	}
	if err := validateRange(dates); err != nil {
		return decimal.Zero, err
	}

	total, err := s.store.SumByType(ctx, txType, dates)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum by type: %w", err)
	}
	return total, nil
}

// TotalsByCategory breaks expenses down by category, largest first.
func (s *AnalyticsService) TotalsByCategory(ctx context.Context, dates models.DateRange) ([]models.CategoryTotal, error) {
	if err := validateRange(dates); err != nil {
		return nil, err
	}

	totals, err := s.store.SumByCategory(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	return WithPercentages(totals), nil
}

// Summary aggregates the working set selected by filter.
func (s *AnalyticsService) Summary(ctx context.Context, filter models.TransactionFilter) (models.Summary, error) {
	if err := ValidateFilter(filter); err != nil {
		return models.Summary{}, err
	}

	transactions, err := s.store.List(ctx, filter)
	if err != nil {
		return models.Summary{}, fmt.Errorf("failed to load working set: %w", err)
	}

	summary := Summarize(transactions)
	s.logger.Debug("Summary computed",
		zap.Int("count", summary.Count),
		zap.String("balance", summary.Balance.StringFixed(2)),
	)
	return summary, nil
}

// Summarize computes income, expense and balance over a set of transactions.
// Transfers count towards neither side.
func Summarize(transactions []*models.Transaction) models.Summary {
	summary := models.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Count:        len(transactions),
	}
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.Categories = CategoryBreakdown(transactions)
	return summary
}

// CategoryBreakdown groups expense amounts by category with their share of the total.
func CategoryBreakdown(transactions []*models.Transaction) []models.CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
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
	return WithPercentages(totals)
}

// WithPercentages fills each entry's share of the grand total, rounded to two
// places. Every share is zero when the grand total is zero.
func WithPercentages(totals []models.CategoryTotal) []models.CategoryTotal {
	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
	}

	result := make([]models.CategoryTotal, len(totals))
	for i, t := range totals {
		t.Percentage = decimal.Zero
		if !grand.IsZero() {
			t.Percentage = t.Total.Mul(hundred).DivRound(grand, 2)
		}
		result[i] = t
	}
	return result
}

func validateRange(dates models.DateRange) error {
	if dates.Start != nil && dates.End != nil && dates.Start.After(*dates.End) {
		return &ValidationError{Field: "startDate", Message: "must not be after endDate"}
	}
	return nil
}
