package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/settings"
	"fintrack/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Import a CSV bank export with date, description and amount columns.

Negative amounts become expenses, positive ones income. Categories are
detected from the description. Nothing is stored if any row is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "parse and validate the file without storing anything")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return fmt.Errorf("%s: only CSV files are supported", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if dryRun {
		drafts, err := service.ParseCSV(file)
		if err != nil {
			return err
		}
		printPreview(cmd, drafts)
		appLogger.Info("CSV is valid", zap.String("file", path), zap.Int("rows", len(drafts)))
		return nil
	}

	ctx := cmd.Context()
	backend, err := storage.Open(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer backend.Close()

	txService := service.NewTransactionService(backend.Store, appLogger)
	importService := service.NewImportService(txService, appLogger)

	result, err := importService.ImportCSV(ctx, file)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", result.Count, path)
	return nil
}

// printPreview lists parsed rows using the saved display settings.
func printPreview(cmd *cobra.Command, drafts []models.TransactionDraft) {
	manager := settings.NewManager(settings.NewFileStore(cfg.Settings.FilePath), appLogger)
	manager.Initialize(cmd.Context())
	format := settings.NewFormatter(manager.Get())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tTYPE\tAMOUNT\tCATEGORY")
	for _, d := range drafts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			format.Date(d.Date), d.Description, d.Type, format.Amount(d.Amount), *d.Category)
	}
	_ = w.Flush()
}
