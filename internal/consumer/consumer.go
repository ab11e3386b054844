package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"pos-service/internal/entity"
	"pos-service/internal/logging"
)

var logger = logging.New("stock-watcher")

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type productReader interface {
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
}

// StockWatcher follows sale events and warns when a sold product drops
// below the low stock threshold.
type StockWatcher struct {
	reader     messageReader
	products   productReader
	threshold  int
	retryDelay time.Duration
}

func NewStockWatcher(reader *kafka.Reader, products productReader, threshold int) *StockWatcher {
	return &StockWatcher{reader: reader, products: products, threshold: threshold, retryDelay: time.Second}
}

// Run reads until ctx is cancelled or the reader is closed.
func (w *StockWatcher) Run(ctx context.Context) error {
	defer w.reader.Close()

	logger.Info().Int("threshold", w.threshold).Msg("Stock watcher started")
	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				logger.Info().Msg("Stock watcher stopped")
				return nil
			}
			logger.Error().Msgf("Error reading message: %v", err)

			select {
			case <-ctx.Done():
				logger.Info().Msg("Stock watcher stopped")
				return nil
			case <-time.After(w.retryDelay):
			}
			continue
		}

		w.processMessage(ctx, msg)
	}
}

// processMessage handles one event and returns the products found low on stock.
func (w *StockWatcher) processMessage(ctx context.Context, msg kafka.Message) []entity.LowStockProduct {
	// key -> "sale.created.<orderID>"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 2 || parts[0] != "sale" || parts[1] != "created" {
		return nil
	}

	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		logger.Error().Msgf("Error unmarshalling message: %v", err)
		return nil
	}

	var low []entity.LowStockProduct
	seen := make(map[int]bool, len(order.Items))
	for _, item := range order.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true

		product, err := w.products.GetProductByID(ctx, item.ProductID)
		if err != nil {
			logger.Error().Msgf("Error reading stock for product %d: %v", item.ProductID, err)
			continue
		}
		if !product.Active || product.Stock >= w.threshold {
			continue
		}

		logger.Warn().
			Int("order_id", order.ID).
			Int("product_id", product.ID).
			Str("sku", product.SKU).
			Int("stock", product.Stock).
			Msg("Low stock")
		low = append(low, entity.LowStockProduct{
			SKU:          product.SKU,
			Name:         product.Name,
			Stock:        product.Stock,
			SupplierName: product.SupplierName,
		})
	}
	return low
}
