package main

import (
	"fmt"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample transactions",
		Long:  `Insert a small set of sample income and expense records for local development.`,
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	backend, err := storage.Open(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer backend.Close()

	txService := service.NewTransactionService(backend.Store, appLogger)
	created, err := txService.BulkCreate(ctx, sampleTransactions())
	if err != nil {
		return fmt.Errorf("failed to seed transactions: %w", err)
	}

	appLogger.Info("Database seeding completed", zap.Int("count", len(created)))
	return nil
}

func sampleTransactions() []models.TransactionDraft {
	draft := func(description, amount string, txType models.TransactionType, category, date, payment string, recurring bool) models.TransactionDraft {
		d, _ := time.Parse("2006-01-02", date)
		return models.TransactionDraft{
			Description:   description,
			Amount:        decimal.RequireFromString(amount),
			Type:          txType,
			Category:      &category,
			Date:          d,
			IsRecurring:   recurring,
			PaymentMethod: &payment,
		}
	}

	return []models.TransactionDraft{
		draft("Salary", "2500", models.TransactionTypeIncome, "Income", "2023-04-01", "Bank Transfer", true),
		draft("Rent", "800", models.TransactionTypeExpense, "Housing", "2023-04-03", "Bank Transfer", true),
		draft("Grocery Shopping", "120.50", models.TransactionTypeExpense, "Food & Dining", "2023-04-05", "Credit Card", false),
		draft("Freelance Work", "350", models.TransactionTypeIncome, "Income", "2023-04-10", "PayPal", false),
		draft("Netflix Subscription", "15.99", models.TransactionTypeExpense, "Subscriptions", "2023-04-15", "Credit Card", true),
	}
}
