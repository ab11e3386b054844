package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pos-service/internal/config"
	"pos-service/internal/logging"
)

var (
	// Global flags
	configPath string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pos-service",
	Short: "Point of sale backend",
	Long: `pos-service serves the register, inventory, staff and supplier actions of a
single store over one JSON endpoint backed by MySQL.

Commands:
  serve        - Run the HTTP server
  migrate      - Create tables and reference rows
  watch-stock  - Follow sale events and report low stock`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.Log)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(watchStockCmd)
}

func setupLogging(l config.Log) error {
	return logging.Setup(l.Level, l.Pretty)
}
