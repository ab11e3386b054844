package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-service/internal/repository"
)

func TestGetDashboard(t *testing.T) {
	db, mock := newMock(t)
	svc := NewDashboardService(repository.NewProductRepository(db), repository.NewOrderRepository(db), 5)

	salesQuery := regexp.QuoteMeta("DATE_SUB(CURDATE(), INTERVAL ? DAY)")
	mock.ExpectQuery(salesQuery).WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "orders"}).AddRow("464.00", 2))
	mock.ExpectQuery(salesQuery).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "orders"}).AddRow("200.00", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders o")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer", "items", "total", "payment", "created_at"}).
			AddRow(2, "General Public", 2, "232.00", "cash", time.Now()).
			AddRow(1, "General Public", 2, "232.00", "card", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.stock ASC")).WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "name", "stock", "supplier"}).AddRow("B-2", "Beta", 4, ""))

	d, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "464.00", d.RevenueToday.StringFixed(2))
	assert.Equal(t, "132.0", d.RevenueChangePct.StringFixed(1))
	assert.Equal(t, 2, d.OrdersToday)
	assert.Equal(t, 1, d.OrdersChange)
	assert.Equal(t, "232.00", d.AverageTicket.StringFixed(2))
	assert.Equal(t, "200.00", d.AverageTicketPrev.StringFixed(2))
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, 5, d.LowStockThreshold)
	assert.Len(t, d.RecentOrders, 2)
	require.Len(t, d.LowStockProducts, 1)
	assert.Equal(t, "B-2", d.LowStockProducts[0].SKU)
}

func TestPercentChange(t *testing.T) {
	assert.True(t, percentChange(dec("50"), dec("0")).IsZero())
	assert.Equal(t, "-50.0", percentChange(dec("50"), dec("100")).StringFixed(1))
	assert.Equal(t, "33.3", percentChange(dec("4"), dec("3")).StringFixed(1))
}

func TestAverageTicketWithoutOrders(t *testing.T) {
	assert.True(t, averageTicket(dec("0"), 0).IsZero())
}
