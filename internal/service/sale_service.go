package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"pos-service/internal/cache"
	"pos-service/internal/config"
	"pos-service/internal/entity"
	"pos-service/internal/logging"
	"pos-service/internal/publisher"
	"pos-service/internal/repository"
)

var logger = logging.New("service")

// SaleService records checkouts.
type SaleService struct {
	store     *repository.Store
	products  *repository.ProductRepository
	orders    *repository.OrderRepository
	cache     *cache.ProductCache
	guard     *cache.IdempotencyGuard
	publisher publisher.Publisher
	cfg       config.Sale
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(store *repository.Store, products *repository.ProductRepository, orders *repository.OrderRepository,
	productCache *cache.ProductCache, guard *cache.IdempotencyGuard, pub publisher.Publisher, cfg config.Sale) *SaleService {
	return &SaleService{
		store:     store,
		products:  products,
		orders:    orders,
		cache:     productCache,
		guard:     guard,
		publisher: pub,
		cfg:       cfg,
	}
}

// CalculateTotals prices a cart: tax is rounded to cents and total is subtotal + tax.
func CalculateTotals(items []entity.OrderItem, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax = subtotal.Mul(taxRate).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// ProcessSale records one order with its line items and takes the sold
// quantities out of stock, all in a single transaction. Any failure rolls the
// whole sale back and is returned as a *TransactionError.
func (s *SaleService) ProcessSale(ctx context.Context, req *entity.SaleRequest) (*entity.Order, error) {
	if err := validateSale(req); err != nil {
		return nil, err
	}

	order := &entity.Order{
		CustomerID:      req.CustomerID,
		EmployeeID:      req.EmployeeID,
		PaymentMethodID: req.PaymentMethodID,
		Type:            entity.OrderTypeInStore,
		Status:          entity.OrderStatusPaid,
		Items:           make([]entity.OrderItem, len(req.Items)),
	}
	if order.CustomerID <= 0 {
		order.CustomerID = s.cfg.DefaultCustomerID
	}
	if order.EmployeeID <= 0 {
		order.EmployeeID = s.cfg.DefaultEmployeeID
	}
	copy(order.Items, req.Items)

	claimed, err := s.guard.Claim(ctx, req.IdempotencyKey)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking idempotency key")
		return nil, err
	}
	if !claimed {
		logger.Warn().Str("idempotency_key", req.IdempotencyKey).Msg("Duplicate sale request")
		return nil, &ConflictError{Message: "duplicate sale request"}
	}

	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.recordSale(ctx, tx, order)
	})
	if err != nil {
		if relErr := s.guard.Release(ctx, req.IdempotencyKey); relErr != nil {
			logger.Error().Err(relErr).Msg("Error releasing idempotency key")
		}
		logger.Error().Err(err).Int("items", len(order.Items)).Msg("Sale rolled back")
		return nil, &TransactionError{Err: err}
	}

	s.warnOnClientTotals(req, order)
	s.afterCommit(ctx, req.IdempotencyKey, order)

	logger.Info().Int("order_id", order.ID).Int("items", len(order.Items)).Str("total", order.Total.StringFixed(2)).Msg("Sale recorded")
	return order, nil
}

func validateSale(req *entity.SaleRequest) error {
	if req.PaymentMethodID <= 0 {
		return &ValidationError{Field: "payment_method_id", Message: "payment method is required"}
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return &ValidationError{Field: "items.id", Message: "every item needs a product id"}
		}
		if item.Quantity <= 0 {
			return &ValidationError{Field: "items.qty", Message: "item quantity must be positive"}
		}
	}
	return nil
}

// recordSale runs inside the transaction. Product rows are locked in id order
// so two registers selling the same products cannot deadlock.
func (s *SaleService) recordSale(ctx context.Context, tx *sql.Tx, order *entity.Order) error {
	products := s.products.WithTx(tx)
	orders := s.orders.WithTx(tx)

	locked, err := products.LockProducts(ctx, productIDs(order.Items))
	if err != nil {
		return fmt.Errorf("lock products: %w", err)
	}

	for i, item := range order.Items {
		product, ok := locked[item.ProductID]
		if !ok || !product.Active {
			return &NotFoundError{Entity: "product", ID: item.ProductID}
		}
		if !item.Price.IsZero() && !item.Price.Equal(product.Price) {
			logger.Warn().Int("product_id", item.ProductID).Str("client_price", item.Price.String()).
				Str("price", product.Price.String()).Msg("Register price differs from catalog price")
		}
		order.Items[i].Price = product.Price
	}

	order.Subtotal, order.Tax, order.Total = CalculateTotals(order.Items, s.cfg.TaxRate)

	if err := orders.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if err := orders.CreateOrderItem(ctx, order.ID, item); err != nil {
			return fmt.Errorf("insert item for product %d: %w", item.ProductID, err)
		}

		ok, err := products.DecrementStock(ctx, item.ProductID, item.Quantity, s.cfg.AllowNegativeStock)
		if err != nil {
			return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
		if !ok {
			return fmt.Errorf("product %d: %w", item.ProductID, ErrInsufficientStock)
		}
	}

	return nil
}

func (s *SaleService) warnOnClientTotals(req *entity.SaleRequest, order *entity.Order) {
	if req.Total.IsZero() || req.Total.Round(2).Equal(order.Total) {
		return
	}
	logger.Warn().Int("order_id", order.ID).Str("client_total", req.Total.String()).
		Str("total", order.Total.StringFixed(2)).Msg("Register total differs from recomputed total")
}

// afterCommit runs the side effects of a recorded sale. Their failures are
// logged only: the sale itself is already durable.
func (s *SaleService) afterCommit(ctx context.Context, key string, order *entity.Order) {
	if err := s.guard.Complete(ctx, key, order.ID); err != nil {
		logger.Error().Err(err).Int("order_id", order.ID).Msg("Error storing idempotency result")
	}

	s.cache.Evict(ctx, productIDs(order.Items)...)

	if err := s.publisher.Publish(ctx, publisher.EventSaleCreated, order.ID, order); err != nil {
		logger.Error().Err(err).Int("order_id", order.ID).Msg("Error publishing sale event")
	}
}

// GetOrder returns a recorded order with its line items.
func (s *SaleService) GetOrder(ctx context.Context, id int) (*entity.Order, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id}
		}
		logger.Error().Err(err).Msgf("Error getting order by ID %d", id)
		return nil, err
	}
	return order, nil
}

func (s *SaleService) ListPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	return s.orders.GetPaymentMethods(ctx)
}

// productIDs returns the distinct product ids of items in ascending order.
func productIDs(items []entity.OrderItem) []int {
	seen := make(map[int]struct{}, len(items))
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	sort.Ints(ids)
	return ids
}
