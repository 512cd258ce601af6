package main

import (
	"database/sql"
	"fmt"

	"github.com/Dan9191/expense-service/internal/repository"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := repository.NewRepository(db).Migrate(cmd.Context()); err != nil {
			return err
		}
		newLogger().Info("Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
