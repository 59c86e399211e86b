package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heven-commerce/storefront/internal/model"
)

// ProductRepositoryInterface defines the interface for product data access.
type ProductRepositoryInterface interface {
	Insert(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// CatalogService provides business logic for the product catalog.
type CatalogService struct {
	products ProductRepositoryInterface
}

// NewCatalogService creates a new CatalogService with the given repository.
func NewCatalogService(products ProductRepositoryInterface) *CatalogService {
	return &CatalogService{products: products}
}

// Create creates a new product from the request and returns the stored record.
// Returns ErrSKUExists when the SKU is already in use.
func (s *CatalogService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil || req.Price == nil {
		return nil, ErrInvalidRequest
	}

	p := &model.Product{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Price:         *req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Images:        req.Images,
		Category:      req.Category,
		Description:   req.Description,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		InStock:       req.InStock,
		Featured:      req.Featured,
		Trending:      req.Trending,
		Stock:         req.Stock,
		SKU:           req.SKU,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a product by ID.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// List retrieves products matching the filter.
func (s *CatalogService) List(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	return s.products.List(ctx, f)
}

// Update applies a partial update and returns the updated record directly,
// avoiding a refetch round-trip.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *CatalogService) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	p.ApplyUpdate(req)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product from the catalog.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
