package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/config"
	"github.com/Veraticus/soapbox/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates automatically; this is useful to prepare a
database ahead of time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath := config.DatabasePath()
			slog.Info("Starting database migration", "database", dbPath)

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Database at schema version %d: %s", storage.ExpectedSchemaVersion, store.Path())))
			return nil
		},
	}
}
