package service

import (
	"context"

	"pos-service/internal/entity"
	"pos-service/internal/repository"
)

type CustomerService struct {
	repo *repository.CustomerRepository
}

func NewCustomerService(repo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// GetCustomers lists customers for the register's customer picker.
func (s *CustomerService) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	return s.repo.GetCustomers(ctx)
}
