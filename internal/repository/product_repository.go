package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pos-service/internal/entity"
)

const productColumns = `p.id, p.sku, p.name, COALESCE(p.category_id, 0), COALESCE(c.name, ''), p.cost, p.price, p.stock,
	COALESCE(p.supplier_id, 0), COALESCE(s.company, ''), p.active, p.created_at`

const productJoins = `FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN suppliers s ON p.supplier_id = s.id`

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *ProductRepository) WithTx(tx *sql.Tx) *ProductRepository {
	return &ProductRepository{tx}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.CategoryName, &p.Cost, &p.Price, &p.Stock,
		&p.SupplierID, &p.SupplierName, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*entity.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productJoins + ` WHERE p.id = ?`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// SearchProducts matches term as a substring of sku or name among active products.
func (r *ProductRepository) SearchProducts(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	pattern := "%" + escapeLike(term) + "%"
	query := `SELECT ` + productColumns + ` ` + productJoins + `
		WHERE p.active = TRUE AND (p.sku LIKE ? OR p.name LIKE ?)
		ORDER BY p.name
		LIMIT ?`
	return r.queryProducts(ctx, query, pattern, pattern, limit)
}

// GetProducts lists active products ordered by name. categoryID 0 means all categories.
func (r *ProductRepository) GetProducts(ctx context.Context, categoryID int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productJoins + ` WHERE p.active = TRUE`
	var args []interface{}
	if categoryID > 0 {
		query += ` AND p.category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY p.name`
	return r.queryProducts(ctx, query, args...)
}

// SKUExists reports whether another product (id != excludeID) already uses sku.
func (r *ProductRepository) SKUExists(ctx context.Context, sku string, excludeID int) (bool, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT id FROM products WHERE sku = ? AND id != ? LIMIT 1`, sku, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (sku, name, category_id, cost, price, stock, supplier_id, active) VALUES (?, ?, ?, ?, ?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, query, product.SKU, product.Name, nullableID(product.CategoryID), product.Cost, product.Price,
		product.Stock, nullableID(product.SupplierID))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	product.Active = true
	return product, nil
}

// UpdateProduct rewrites the descriptive fields of a product. Stock is left alone.
func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET sku = ?, name = ?, category_id = ?, cost = ?, price = ?, supplier_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, product.SKU, product.Name, nullableID(product.CategoryID), product.Cost, product.Price,
		nullableID(product.SupplierID), product.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *ProductRepository) SetStock(ctx context.Context, id, stock int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, stock, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *ProductRepository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// LockProducts selects the given products FOR UPDATE in ascending id order.
// ids must already be sorted and free of duplicates.
func (r *ProductRepository) LockProducts(ctx context.Context, ids []int) (map[int]*entity.Product, error) {
	locked := make(map[int]*entity.Product, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT id, sku, name, price, stock, active FROM products WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id FOR UPDATE`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.Active); err != nil {
			return nil, err
		}
		locked[p.ID] = &p
	}
	return locked, rows.Err()
}

// DecrementStock subtracts qty from a product's stock. Unless allowNegative is
// set the update only applies while enough stock remains, and zero affected
// rows is reported as false.
func (r *ProductRepository) DecrementStock(ctx context.Context, id, qty int, allowNegative bool) (bool, error) {
	query := `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`
	args := []interface{}{qty, id, qty}
	if allowNegative {
		query = `UPDATE products SET stock = stock - ? WHERE id = ?`
		args = args[:2]
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ProductRepository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE stock < ? AND active = TRUE`, threshold).Scan(&count)
	return count, err
}

// GetLowStockProducts lists the most depleted active products first.
func (r *ProductRepository) GetLowStockProducts(ctx context.Context, threshold, limit int) ([]entity.LowStockProduct, error) {
	query := `SELECT p.sku, p.name, p.stock, COALESCE(s.company, '')
		FROM products p
		LEFT JOIN suppliers s ON p.supplier_id = s.id
		WHERE p.stock < ? AND p.active = TRUE
		ORDER BY p.stock ASC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []entity.LowStockProduct{}
	for rows.Next() {
		var p entity.LowStockProduct
		if err := rows.Scan(&p.SKU, &p.Name, &p.Stock, &p.SupplierName); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetCategories(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []entity.Category{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nullableID stores a zero reference as NULL.
func nullableID(id int) interface{} {
	if id <= 0 {
		return nil
	}
	return id
}

// expectRow turns an update that matched nothing into ErrNotFound. It relies
// on the DSN's clientFoundRows so unchanged rows still count as matched.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
