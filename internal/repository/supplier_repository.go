package repository

import (
	"context"
	"database/sql"
	"errors"

	"pos-service/internal/entity"
)

type SupplierRepository struct {
	db DBTX
}

func NewSupplierRepository(db DBTX) *SupplierRepository {
	return &SupplierRepository{db}
}

func (r *SupplierRepository) GetSupplierByID(ctx context.Context, id int) (*entity.Supplier, error) {
	s := &entity.Supplier{}
	query := `SELECT id, company, contact, COALESCE(phone, ''), COALESCE(email, ''), active FROM suppliers WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Company, &s.Contact, &s.Phone, &s.Email, &s.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetSuppliers lists suppliers by company name with the number of products
// each one supplies. activeOnly hides deactivated suppliers.
func (r *SupplierRepository) GetSuppliers(ctx context.Context, activeOnly bool) ([]*entity.Supplier, error) {
	query := `SELECT s.id, s.company, s.contact, COALESCE(s.phone, ''), COALESCE(s.email, ''), s.active, COUNT(p.id)
		FROM suppliers s
		LEFT JOIN products p ON p.supplier_id = s.id`
	if activeOnly {
		query += ` WHERE s.active = TRUE`
	}
	query += ` GROUP BY s.id, s.company, s.contact, s.phone, s.email, s.active ORDER BY s.company`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []*entity.Supplier{}
	for rows.Next() {
		s := &entity.Supplier{}
		if err := rows.Scan(&s.ID, &s.Company, &s.Contact, &s.Phone, &s.Email, &s.Active, &s.ProductCount); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *SupplierRepository) CreateSupplier(ctx context.Context, s *entity.Supplier) (*entity.Supplier, error) {
	query := `INSERT INTO suppliers (company, contact, phone, email, active) VALUES (?, ?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, query, s.Company, s.Contact, s.Phone, s.Email)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.ID = int(id)
	s.Active = true
	return s, nil
}

func (r *SupplierRepository) UpdateSupplier(ctx context.Context, s *entity.Supplier) error {
	query := `UPDATE suppliers SET company = ?, contact = ?, phone = ?, email = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, s.Company, s.Contact, s.Phone, s.Email, s.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}
