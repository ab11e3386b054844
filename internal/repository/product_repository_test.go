package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/internal/entity"
)

var productRowColumns = []string{"id", "sku", "name", "category_id", "category", "cost", "price", "stock",
	"supplier_id", "supplier", "active", "created_at"}

func TestGetProductByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = ?")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(7, "SKU-7", "Coffee 1kg", 2, "Grocery", "80.00", "120.50", 14, 3, "Andes Imports", true, now))

	product, err := repo.GetProductByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "SKU-7", product.SKU)
	assert.Equal(t, "Grocery", product.CategoryName)
	assert.Equal(t, "120.5", product.Price.String())
	assert.Equal(t, 14, product.Stock)
	assert.Equal(t, "Andes Imports", product.SupplierName)
}

func TestGetProductByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = ?")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err := repo.GetProductByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchProductsEscapesPattern(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(p.sku LIKE ? OR p.name LIKE ?)")).
		WithArgs(`%50\%%`, `%50\%%`, 10).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	products, err := repo.SearchProducts(context.Background(), "50%", 10)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestGetProductsByCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND p.category_id = ? ORDER BY p.name")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(1, "A-1", "Apples", 4, "Produce", "1.00", "2.00", 30, 0, "", true, time.Now()))

	products, err := repo.GetProducts(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Apples", products[0].Name)
}

func TestSKUExists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM products WHERE sku = ? AND id != ?")).
		WithArgs("SKU-1", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM products WHERE sku = ? AND id != ?")).
		WithArgs("SKU-1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	exists, err := repo.SKUExists(context.Background(), "SKU-1", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SKUExists(context.Background(), "SKU-1", 3)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateProductStoresMissingReferencesAsNull(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("SKU-9", "Tea", nil, sqlmock.AnyArg(), sqlmock.AnyArg(), 12, nil).
		WillReturnResult(sqlmock.NewResult(41, 1))

	product, err := repo.CreateProduct(context.Background(), &entity.Product{SKU: "SKU-9", Name: "Tea", Stock: 12})
	require.NoError(t, err)
	assert.Equal(t, 41, product.ID)
	assert.True(t, product.Active)
}

func TestUpdateProductNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET sku = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProduct(context.Background(), &entity.Product{ID: 5, SKU: "X", Name: "Y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLockProducts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN (?, ?) ORDER BY id FOR UPDATE")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sku", "name", "price", "stock", "active"}).
			AddRow(1, "A", "Alpha", "50.00", 10, true).
			AddRow(2, "B", "Beta", "100.00", 3, false))

	locked, err := repo.LockProducts(context.Background(), []int{1, 2})
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, "50", locked[1].Price.String())
	assert.False(t, locked[2].Active)
}

func TestLockProductsEmpty(t *testing.T) {
	db, _ := newMock(t)
	repo := NewProductRepository(db)

	locked, err := repo.LockProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, locked)
}

func TestDecrementStock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?")).
		WithArgs(2, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?")).
		WithArgs(5, 1, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DecrementStock(context.Background(), 1, 2, false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(context.Background(), 1, 5, false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecrementStockAllowNegative(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(`UPDATE products SET stock = stock - \? WHERE id = \?$`).
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.DecrementStock(context.Background(), 1, 5, true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLowStock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE stock < ? AND active = TRUE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.stock ASC")).
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "name", "stock", "supplier"}).
			AddRow("M-1", "Milk", 0, "Dairy Co").
			AddRow("B-2", "Bread", 3, ""))

	count, err := repo.CountLowStock(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	products, err := repo.GetLowStockProducts(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, entity.LowStockProduct{SKU: "M-1", Name: "Milk", Stock: 0, SupplierName: "Dairy Co"}, products[0])
}
