package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
)

// CatalogServiceInterface defines the interface for catalog business logic.
type CatalogServiceInterface interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler handles HTTP requests for catalog operations.
type ProductHandler struct {
	service   CatalogServiceInterface
	validator *validator.Validate
}

// NewProductHandler creates a new ProductHandler with the given service and validator.
func NewProductHandler(svc CatalogServiceInterface, v *validator.Validate) *ProductHandler {
	return &ProductHandler{service: svc, validator: v}
}

// List handles GET /api/products with optional category/featured/trending filters.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := model.ProductFilter{Category: c.Query("category")}
	if v := c.Query("featured"); v != "" {
		b := v == "true"
		f.Featured = &b
	}
	if v := c.Query("trending"); v != "" {
		b := v == "true"
		f.Trending = &b
	}

	products, err := h.service.List(c.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(products)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		log.Error().Err(err).Str("product_id", c.Params("id")).Msg("failed to get product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(p)
}

// Create handles POST /api/admin/products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	p, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSKUExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "product sku already exists"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("sku", req.SKU).Msg("failed to create product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update handles PATCH /api/admin/products/:id and returns the updated record.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	p, err := h.service.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("product_id", c.Params("id")).Msg("failed to update product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(p)
}

// Delete handles DELETE /api/admin/products/:id.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		log.Error().Err(err).Str("product_id", c.Params("id")).Msg("failed to delete product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
