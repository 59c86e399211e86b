package model

import "time"

// Product represents a catalog product. The cart references products by ID;
// it never owns or mutates them.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         int       `json:"price"`
	OriginalPrice *int      `json:"original_price,omitempty"`
	Image         string    `json:"image"`
	Images        []string  `json:"images"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	InStock       bool      `json:"in_stock"`
	Featured      bool      `json:"featured"`
	Trending      bool      `json:"trending"`
	Stock         int       `json:"stock"`
	SKU           string    `json:"sku"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateProductRequest is the DTO for POST /api/admin/products.
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,notblank,max=255"`
	Price         *int     `json:"price" validate:"required,gte=0"`
	OriginalPrice *int     `json:"original_price" validate:"omitempty,gte=0"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Category      string   `json:"category" validate:"required,notblank,max=100"`
	Description   string   `json:"description"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	InStock       bool     `json:"in_stock"`
	Featured      bool     `json:"featured"`
	Trending      bool     `json:"trending"`
	Stock         int      `json:"stock" validate:"gte=0"`
	SKU           string   `json:"sku" validate:"required,notblank,max=100"`
}

// UpdateProductRequest is the DTO for partial product updates.
// Nil fields are left untouched; see Product.ApplyUpdate.
type UpdateProductRequest struct {
	Name          *string   `json:"name" validate:"omitempty,notblank,max=255"`
	Price         *int      `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *int      `json:"original_price" validate:"omitempty,gte=0"`
	Image         *string   `json:"image"`
	Images        *[]string `json:"images"`
	Category      *string   `json:"category" validate:"omitempty,notblank,max=100"`
	Description   *string   `json:"description"`
	Sizes         *[]string `json:"sizes"`
	Colors        *[]string `json:"colors"`
	InStock       *bool     `json:"in_stock"`
	Featured      *bool     `json:"featured"`
	Trending      *bool     `json:"trending"`
	Stock         *int      `json:"stock" validate:"omitempty,gte=0"`
}

// ApplyUpdate merges the non-nil fields of req into the product.
func (p *Product) ApplyUpdate(req *UpdateProductRequest) {
	if req == nil {
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Sizes != nil {
		p.Sizes = *req.Sizes
	}
	if req.Colors != nil {
		p.Colors = *req.Colors
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Trending != nil {
		p.Trending = *req.Trending
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category string
	Featured *bool
	Trending *bool
}
