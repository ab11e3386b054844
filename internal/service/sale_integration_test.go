//go:build integration
// +build integration

package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"pos-service/internal/config"
	"pos-service/internal/entity"
	"pos-service/internal/publisher"
	"pos-service/internal/repository"
	"pos-service/internal/service"
	"pos-service/migrations"
)

// setupTestDB starts MySQL, applies migrations and returns a pooled connection.
func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0.36",
		mysql.WithDatabase("pos_db"),
		mysql.WithUsername("pos"),
		mysql.WithPassword("pos"),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	cfg := config.Default().Database
	cfg.Host = host
	cfg.Port = port.Port()
	cfg.User = "pos"
	cfg.Password = "pos"

	db, err := repository.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.AutoMigrate(ctx, db, 3))
	// applying twice must be harmless
	require.NoError(t, migrations.AutoMigrate(ctx, db, 3))
	return db
}

func stockOf(t *testing.T, db *sql.DB, id int) int {
	var stock int
	require.NoError(t, db.QueryRow(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock))
	return stock
}

func count(t *testing.T, db *sql.DB, table string) int {
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestSaleAgainstMySQL(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	products := service.NewProductService(productRepo, nil, publisher.Noop{})
	sales := service.NewSaleService(repository.NewStore(db), productRepo, orderRepo, nil, nil, publisher.Noop{}, config.Default().Sale)

	alpha, err := products.CreateProduct(ctx, &entity.Product{SKU: "A-1", Name: "Alpha", Price: decimal.RequireFromString("50.00"), Stock: 10})
	require.NoError(t, err)
	beta, err := products.CreateProduct(ctx, &entity.Product{SKU: "B-2", Name: "Beta", Price: decimal.RequireFromString("100.00"), Stock: 1})
	require.NoError(t, err)

	_, err = products.CreateProduct(ctx, &entity.Product{SKU: "A-1", Name: "Alpha again"})
	var conflict *service.ConflictError
	require.ErrorAs(t, err, &conflict)

	order, err := sales.ProcessSale(ctx, &entity.SaleRequest{
		PaymentMethodID: 1,
		Items: []entity.OrderItem{
			{ProductID: alpha.ID, Quantity: 2},
			{ProductID: beta.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "232.00", order.Total.StringFixed(2))
	assert.Equal(t, 8, stockOf(t, db, alpha.ID))
	assert.Equal(t, 0, stockOf(t, db, beta.ID))
	assert.Equal(t, 2, count(t, db, "order_details"))

	stored, err := sales.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "32.00", stored.Tax.StringFixed(2))

	// beta is sold out: nothing of this sale may persist
	_, err = sales.ProcessSale(ctx, &entity.SaleRequest{
		PaymentMethodID: 1,
		Items: []entity.OrderItem{
			{ProductID: alpha.ID, Quantity: 1},
			{ProductID: beta.ID, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 8, stockOf(t, db, alpha.ID))
	assert.Equal(t, 1, count(t, db, "orders"))
	assert.Equal(t, 2, count(t, db, "order_details"))
}
