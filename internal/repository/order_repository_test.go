package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/internal/entity"
)

func TestCreateOrderSetsID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(1, 1, 2, entity.OrderTypeInStore, entity.OrderStatusPaid, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(101, 1))

	order := &entity.Order{
		CustomerID:      1,
		EmployeeID:      1,
		PaymentMethodID: 2,
		Type:            entity.OrderTypeInStore,
		Status:          entity.OrderStatusPaid,
		Subtotal:        decimal.NewFromInt(200),
		Tax:             decimal.NewFromInt(32),
		Total:           decimal.NewFromInt(232),
	}
	require.NoError(t, repo.CreateOrder(context.Background(), order))
	assert.Equal(t, 101, order.ID)
}

func TestGetOrderByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = ?")).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "employee_id", "payment_method_id", "type", "status",
			"subtotal", "tax", "total", "created_at"}).
			AddRow(101, 1, 1, 1, "in_store", "paid", "200.00", "32.00", "232.00", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_details WHERE order_id = ?")).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "unit_price"}).
			AddRow(1, 2, "50.00").
			AddRow(2, 1, "100.00"))

	order, err := repo.GetOrderByID(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(232)))
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[1].Price.Equal(decimal.NewFromInt(100)))
}

func TestGetOrderByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetOrderByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSalesOnDay(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DATE_SUB(CURDATE(), INTERVAL ? DAY)")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "orders"}).AddRow("464.00", 2))

	revenue, count, err := repo.SalesOnDay(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(464)))
	assert.Equal(t, 2, count)
}
