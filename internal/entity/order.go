package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderTypeInStore = "in_store"
	OrderStatusPaid  = "paid"
)

type Order struct {
	ID              int             `json:"id"`
	CustomerID      int             `json:"customer_id"`
	EmployeeID      int             `json:"employee_id"`
	PaymentMethodID int             `json:"payment_method_id"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem is one cart line. Price is the unit price captured at sale time.
type OrderItem struct {
	ProductID int             `json:"id"`
	Quantity  int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

// SaleRequest is the process_sale payload. Subtotal, Tax and Total are
// whatever the register displayed; the server recomputes them.
type SaleRequest struct {
	CustomerID      int             `json:"customer_id"`
	EmployeeID      int             `json:"employee_id"`
	PaymentMethodID int             `json:"payment_method_id"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Items           []OrderItem     `json:"items"`
	IdempotencyKey  string          `json:"-"`
}

// RecentOrder is a row of the dashboard's recent transactions list.
type RecentOrder struct {
	ID            int             `json:"id"`
	CustomerName  string          `json:"customer_name"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentMethod struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

/*
Mysql Table

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	customer_id INT NOT NULL,
	employee_id INT NOT NULL,
	payment_method_id INT NOT NULL,
	type VARCHAR(20) NOT NULL,
	status VARCHAR(20) NOT NULL,
	subtotal DECIMAL(10,2) NOT NULL,
	tax DECIMAL(10,2) NOT NULL,
	total DECIMAL(10,2) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE order_details (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL REFERENCES orders(id),
	product_id INT NOT NULL REFERENCES products(id),
	quantity INT NOT NULL,
	unit_price DECIMAL(10,2) NOT NULL
);
*/
