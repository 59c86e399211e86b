package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/heven-commerce/storefront/internal/middleware"
	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/pricing"
	"github.com/heven-commerce/storefront/internal/service"
)

// CartServiceInterface defines the interface for cart business logic.
type CartServiceInterface interface {
	Get(ctx context.Context, userID string) (*model.CartResponse, error)
	AddItem(ctx context.Context, userID string, req *model.AddCartItemRequest) (*model.CartResponse, error)
	SetQuantity(ctx context.Context, userID string, req *model.UpdateCartItemRequest) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, userID string, req *model.RemoveCartItemRequest) (*model.CartResponse, error)
	QuoteCoupon(ctx context.Context, userID, code string) (*model.CouponQuote, error)
}

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service   CartServiceInterface
	validator *validator.Validate
}

// NewCartHandler creates a new CartHandler with the given service and validator.
func NewCartHandler(svc CartServiceInterface, v *validator.Validate) *CartHandler {
	return &CartHandler{service: svc, validator: v}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cart, err := h.service.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to get cart")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(cart)
}

// AddItem handles POST /api/cart/items and returns the updated cart.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req model.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.AddItem(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidQuantity):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: quantity must be at least 1"})
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to add cart item")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// UpdateItem handles PUT /api/cart/items. Quantity zero removes the line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req model.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.SetQuantity(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartLineNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cart line not found"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to update cart item")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(cart)
}

// RemoveItem handles DELETE /api/cart/items.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	var req model.RemoveCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	cart, err := h.service.RemoveItem(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrCartLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cart line not found"})
		}
		log.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to remove cart item")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(cart)
}

// ApplyCoupon handles POST /api/cart/coupon: it quotes a discount against the
// current cart without consuming the coupon's usage budget.
func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req model.ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	quote, err := h.service.QuoteCoupon(c.Context(), middleware.UserID(c), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		case errors.Is(err, service.ErrCouponNotRedeemable):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "coupon not redeemable"})
		}
		log.Error().Err(err).Str("code", req.Code).Msg("failed to quote coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(quote)
}
