package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"pos-service/internal/entity"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *OrderRepository) WithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{tx}
}

// CreateOrder inserts the order header and sets order.ID.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	query := `INSERT INTO orders (customer_id, employee_id, payment_method_id, type, status, subtotal, tax, total) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, order.CustomerID, order.EmployeeID, order.PaymentMethodID, order.Type, order.Status,
		order.Subtotal, order.Tax, order.Total)
	if err != nil {
		return err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	order.ID = int(orderID)
	return nil
}

func (r *OrderRepository) CreateOrderItem(ctx context.Context, orderID int, item entity.OrderItem) error {
	query := `INSERT INTO order_details (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, orderID, item.ProductID, item.Quantity, item.Price)
	return err
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	orderQuery := `SELECT id, customer_id, employee_id, payment_method_id, type, status, subtotal, tax, total, created_at FROM orders WHERE id = ?`
	itemQuery := `SELECT product_id, quantity, unit_price FROM order_details WHERE order_id = ? ORDER BY id`

	order := &entity.Order{}
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(&order.ID, &order.CustomerID, &order.EmployeeID, &order.PaymentMethodID,
		&order.Type, &order.Status, &order.Subtotal, &order.Tax, &order.Total, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = []entity.OrderItem{}
	for rows.Next() {
		item := entity.OrderItem{}
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

// SalesOnDay returns revenue and order count for the day daysAgo days before today.
func (r *OrderRepository) SalesOnDay(ctx context.Context, daysAgo int) (decimal.Decimal, int, error) {
	query := `SELECT COALESCE(SUM(total), 0), COUNT(*) FROM orders WHERE DATE(created_at) = DATE_SUB(CURDATE(), INTERVAL ? DAY)`
	var revenue decimal.Decimal
	var count int
	if err := r.db.QueryRowContext(ctx, query, daysAgo).Scan(&revenue, &count); err != nil {
		return decimal.Zero, 0, err
	}
	return revenue, count, nil
}

// GetRecentOrders lists today's most recent orders.
func (r *OrderRepository) GetRecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error) {
	query := `SELECT o.id,
			COALESCE(CONCAT(c.first_name, ' ', COALESCE(c.last_name, '')), ''),
			COUNT(d.id),
			o.total,
			COALESCE(pm.name, ''),
			o.created_at
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		LEFT JOIN order_details d ON o.id = d.order_id
		LEFT JOIN payment_methods pm ON o.payment_method_id = pm.id
		WHERE DATE(o.created_at) = CURDATE()
		GROUP BY o.id, c.first_name, c.last_name, o.total, pm.name, o.created_at
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entity.RecentOrder{}
	for rows.Next() {
		var o entity.RecentOrder
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.ItemCount, &o.Total, &o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) GetPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM payment_methods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := []entity.PaymentMethod{}
	for rows.Next() {
		var m entity.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}
