package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convene-events/server/internal/storage/postgres"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
	Long: `Apply or roll back schema migrations for the postgres storage driver.
The in-memory driver needs no migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		if err := postgres.MigrateUp(url); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		if err := postgres.MigrateDown(url, migrateDownSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", migrateDownSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func databaseURL() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", fmt.Errorf("config error: %w", err)
	}
	if cfg.Storage.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required for migrations")
	}
	return cfg.Storage.DatabaseURL, nil
}
