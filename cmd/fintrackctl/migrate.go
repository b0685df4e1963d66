package main

import (
	"errors"
	"fmt"

	"fintrack/pkg/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Bring the PostgreSQL schema up to the latest version, or roll back
a number of steps with --down.`,
		RunE: runMigrate,
	}

	cmd.Flags().Int("down", 0, "roll back this many migrations instead of migrating up")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	steps, _ := cmd.Flags().GetInt("down")
	if steps < 0 {
		return errors.New("--down must not be negative")
	}

	if steps > 0 {
		if err := postgres.RollbackMigrations(&cfg.Database, steps, appLogger); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		return nil
	}

	if err := postgres.RunMigrations(&cfg.Database, appLogger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
