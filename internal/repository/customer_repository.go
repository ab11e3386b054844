package repository

import (
	"context"

	"pos-service/internal/entity"
)

type CustomerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db}
}

func (r *CustomerRepository) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	query := `SELECT id, CONCAT(first_name, ' ', COALESCE(last_name, '')), COALESCE(phone, '') FROM customers ORDER BY first_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []entity.Customer{}
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
