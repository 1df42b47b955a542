package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/validation"
)

const productResource = "products"

type productRepository interface {
	List(ctx context.Context, q models.ListQuery) ([]models.Product, int, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// CreateProductRequest is the payload for catalog items.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,min=0"`
}

// UpdateProductRequest is the partial update payload for products.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitnil,min=0"`
}

// ProductService manages the product catalog.
type ProductService struct {
	repo      productRepository
	validator *validation.Validator
	cache     *CacheService
	logger    *zap.Logger
}

// NewProductService constructs a ProductService.
func NewProductService(repo productRepository, validate *validation.Validator, cache *CacheService, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{repo: repo, validator: defaultValidator(validate), cache: cache, logger: logger}
}

// List returns products.
func (s *ProductService) List(ctx context.Context, q models.ListQuery) ([]models.Product, *models.Pagination, error) {
	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, internalError(err, "failed to list products")
	}
	return products, models.NewPagination(q, total), nil
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	var cached models.Product
	if s.cache.lookupDetail(ctx, productResource, id, &cached) {
		return &cached, nil
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Product")
	}
	s.cache.storeDetail(ctx, productResource, id, product)
	return product, nil
}

// Create adds a product.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	product := &models.Product{Name: req.Name, Description: req.Description, Price: *req.Price}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, persistError(err, "Product", "create product", nil)
	}
	s.cache.invalidateDetails(ctx)
	return product, nil
}

// Update modifies a product.
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "Product")
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, persistError(err, "Product", "update product", nil)
	}
	s.cache.invalidateDetails(ctx)
	return product, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return loadError(err, "Product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return persistError(err, "Product", "delete product", nil)
	}
	s.cache.invalidateDetails(ctx)
	return nil
}
