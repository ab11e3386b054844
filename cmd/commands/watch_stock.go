package commands

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pos-service/internal/config"
	"pos-service/internal/consumer"
	"pos-service/internal/repository"
)

// watchStockCmd follows sale events and logs low stock alerts
var watchStockCmd = &cobra.Command{
	Use:   "watch-stock",
	Short: "Follow sale events and report low stock",
	Long: `Consume sale.created events from Kafka and log a warning for every sold product
whose stock fell below sale.low_stock_threshold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Kafka.Brokers) == 0 {
			return errors.New("watch-stock needs kafka.brokers (or KAFKA_BROKERS)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := repository.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		reader := config.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		watcher := consumer.NewStockWatcher(reader, repository.NewProductRepository(db), cfg.Sale.LowStockThreshold)

		log.Info().Msgf("Watching %s for low stock", cfg.Kafka.Topic)
		return watcher.Run(ctx)
	},
}
