package entity

import "github.com/shopspring/decimal"

// Dashboard holds the KPIs shown on the back-office landing page.
type Dashboard struct {
	RevenueToday      decimal.Decimal   `json:"revenue_today"`
	RevenueYesterday  decimal.Decimal   `json:"revenue_yesterday"`
	RevenueChangePct  decimal.Decimal   `json:"revenue_change_pct"`
	OrdersToday       int               `json:"orders_today"`
	OrdersYesterday   int               `json:"orders_yesterday"`
	OrdersChange      int               `json:"orders_change"`
	LowStockCount     int               `json:"low_stock_count"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	AverageTicket     decimal.Decimal   `json:"average_ticket"`
	AverageTicketPrev decimal.Decimal   `json:"average_ticket_yesterday"`
	RecentOrders      []RecentOrder     `json:"recent_orders"`
	LowStockProducts  []LowStockProduct `json:"low_stock_products"`
}
