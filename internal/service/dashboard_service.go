package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pos-service/internal/entity"
	"pos-service/internal/repository"
)

const (
	recentOrdersLimit = 5
	lowStockLimit     = 10
)

// DashboardService computes the back-office KPIs on every call. There is no
// caching; the queries are cheap at register scale.
type DashboardService struct {
	products  *repository.ProductRepository
	orders    *repository.OrderRepository
	threshold int
}

func NewDashboardService(products *repository.ProductRepository, orders *repository.OrderRepository, lowStockThreshold int) *DashboardService {
	return &DashboardService{
		products:  products,
		orders:    orders,
		threshold: lowStockThreshold,
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*entity.Dashboard, error) {
	revenueToday, ordersToday, err := s.orders.SalesOnDay(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("today's sales: %w", err)
	}
	revenueYesterday, ordersYesterday, err := s.orders.SalesOnDay(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("yesterday's sales: %w", err)
	}
	lowStockCount, err := s.products.CountLowStock(ctx, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock count: %w", err)
	}
	recent, err := s.orders.GetRecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	lowStock, err := s.products.GetLowStockProducts(ctx, s.threshold, lowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}

	return &entity.Dashboard{
		RevenueToday:      revenueToday,
		RevenueYesterday:  revenueYesterday,
		RevenueChangePct:  percentChange(revenueToday, revenueYesterday),
		OrdersToday:       ordersToday,
		OrdersYesterday:   ordersYesterday,
		OrdersChange:      ordersToday - ordersYesterday,
		LowStockCount:     lowStockCount,
		LowStockThreshold: s.threshold,
		AverageTicket:     averageTicket(revenueToday, ordersToday),
		AverageTicketPrev: averageTicket(revenueYesterday, ordersYesterday),
		RecentOrders:      recent,
		LowStockProducts:  lowStock,
	}, nil
}

func averageTicket(revenue decimal.Decimal, orders int) decimal.Decimal {
	if orders == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(int64(orders))).Round(2)
}

// percentChange is 0 when there is nothing to compare against.
func percentChange(now, before decimal.Decimal) decimal.Decimal {
	if !before.IsPositive() {
		return decimal.Zero
	}
	return now.Sub(before).Div(before).Mul(decimal.NewFromInt(100)).Round(1)
}
