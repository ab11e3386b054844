package service

import (
	"context"
	"errors"
	"strings"

	"pos-service/internal/cache"
	"pos-service/internal/entity"
	"pos-service/internal/publisher"
	"pos-service/internal/repository"
)

const searchLimit = 10

var errUnknownReference = &ValidationError{Field: "category_id", Message: "unknown category or supplier"}

type ProductService struct {
	productRepo *repository.ProductRepository
	cache       *cache.ProductCache
	publisher   publisher.Publisher
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo *repository.ProductRepository, productCache *cache.ProductCache, pub publisher.Publisher) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       productCache,
		publisher:   pub,
	}
}

// SearchProducts returns up to ten active products whose sku or name contains term.
func (p *ProductService) SearchProducts(ctx context.Context, term string) ([]*entity.Product, error) {
	return p.productRepo.SearchProducts(ctx, strings.TrimSpace(term), searchLimit)
}

func (p *ProductService) ListProducts(ctx context.Context, categoryID int) ([]*entity.Product, error) {
	return p.productRepo.GetProducts(ctx, categoryID)
}

func (p *ProductService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return p.productRepo.GetCategories(ctx)
}

// GetProduct reads through the product cache.
func (p *ProductService) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}

	if product := p.cache.Get(ctx, id); product != nil {
		return product, nil
	}

	product, err := p.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, err
	}

	p.cache.Set(ctx, product)
	return product, nil
}

func (p *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	product.SKU = strings.TrimSpace(product.SKU)
	product.Name = strings.TrimSpace(product.Name)
	if product.SKU == "" || product.Name == "" {
		return nil, missingFields("sku")
	}
	if product.Stock < 0 {
		return nil, &ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}

	exists, err := p.productRepo.SKUExists(ctx, product.SKU, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{Message: "SKU already exists"}
	}

	created, err := p.productRepo.CreateProduct(ctx, product)
	if err != nil {
		switch {
		case repository.IsDuplicateKey(err):
			return nil, &ConflictError{Message: "SKU already exists"}
		case repository.IsForeignKeyViolation(err):
			return nil, errUnknownReference
		}
		logger.Error().Err(err).Str("sku", product.SKU).Msg("Error creating product")
		return nil, err
	}

	p.publish(ctx, publisher.EventProductCreated, created.ID, created)
	return created, nil
}

// UpdateProduct changes everything but stock, which only moves through
// AdjustStock and checkouts.
func (p *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) error {
	product.SKU = strings.TrimSpace(product.SKU)
	product.Name = strings.TrimSpace(product.Name)
	if product.ID <= 0 || product.SKU == "" || product.Name == "" {
		return missingFields("sku")
	}

	exists, err := p.productRepo.SKUExists(ctx, product.SKU, product.ID)
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Message: "SKU already exists on another product"}
	}

	if err := p.productRepo.UpdateProduct(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return &NotFoundError{Entity: "product", ID: product.ID}
		case repository.IsDuplicateKey(err):
			return &ConflictError{Message: "SKU already exists on another product"}
		case repository.IsForeignKeyViolation(err):
			return errUnknownReference
		}
		logger.Error().Err(err).Msgf("Error updating product %d", product.ID)
		return err
	}

	p.cache.Evict(ctx, product.ID)
	p.publish(ctx, publisher.EventProductUpdated, product.ID, product)
	return nil
}

// AdjustStock sets a product's stock to an absolute, non-negative count.
func (p *ProductService) AdjustStock(ctx context.Context, id int, stock *int) error {
	if id <= 0 || stock == nil {
		return missingFields("stock")
	}
	if *stock < 0 {
		return &ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}

	if err := p.productRepo.SetStock(ctx, id, *stock); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "product", ID: id}
		}
		logger.Error().Err(err).Msgf("Error adjusting stock for product %d", id)
		return err
	}

	logger.Info().Int("product_id", id).Int("stock", *stock).Msg("Stock adjusted")
	p.cache.Evict(ctx, id)
	p.publish(ctx, publisher.EventStockAdjusted, id, map[string]int{"id": id, "stock": *stock})
	return nil
}

// SetActive soft-deletes or restores a product.
func (p *ProductService) SetActive(ctx context.Context, id int, active bool) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if err := p.productRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: "product", ID: id}
		}
		return err
	}
	p.cache.Evict(ctx, id)
	return nil
}

func (p *ProductService) publish(ctx context.Context, event string, id int, payload interface{}) {
	if err := p.publisher.Publish(ctx, event, id, payload); err != nil {
		logger.Error().Err(err).Str("event", event).Int("product_id", id).Msg("Error publishing product event")
	}
}
