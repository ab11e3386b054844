package commands

import (
	"github.com/spf13/cobra"

	"pos-service/internal/repository"
	"pos-service/migrations"
)

var migrateRetries int

// migrateCmd creates the schema and reference rows
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and reference rows",
	Long: `Create every missing table and insert the reference rows the register relies on
(walk-in customer, register employee, roles, payment methods). Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := repository.Connect(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		return migrations.AutoMigrate(cmd.Context(), db, migrateRetries)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateRetries, "retries", 5, "Retries per statement")
}
