package service

import (
	"context"
	"errors"
	"strings"

	"pos-service/internal/entity"
	"pos-service/internal/repository"
)

type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

func (s *SupplierService) GetSupplier(ctx context.Context, id int) (*entity.Supplier, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}
	supplier, err := s.repo.GetSupplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "supplier", ID: id}
		}
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) ListSuppliers(ctx context.Context, activeOnly bool) ([]*entity.Supplier, error) {
	return s.repo.GetSuppliers(ctx, activeOnly)
}

func (s *SupplierService) CreateSupplier(ctx context.Context, supplier *entity.Supplier) (*entity.Supplier, error) {
	normalizeSupplier(supplier)
	if supplier.Company == "" || supplier.Contact == "" {
		return nil, missingFields("company")
	}

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating supplier")
		return nil, err
	}
	return created, nil
}

func (s *SupplierService) UpdateSupplier(ctx context.Context, supplier *entity.Supplier) error {
	normalizeSupplier(supplier)
	if supplier.ID <= 0 || supplier.Company == "" || supplier.Contact == "" {
		return missingFields("company")
	}

	if err := s.repo.UpdateSupplier(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "supplier", ID: supplier.ID}
		}
		logger.Error().Err(err).Msgf("Error updating supplier %d", supplier.ID)
		return err
	}
	return nil
}

func normalizeSupplier(s *entity.Supplier) {
	s.Company = strings.TrimSpace(s.Company)
	s.Contact = strings.TrimSpace(s.Contact)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = strings.TrimSpace(s.Email)
}
