package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/heven-commerce/storefront/internal/middleware"
	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
)

// CheckoutServiceInterface defines the interface for checkout business logic.
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error)
}

// OrderServiceInterface defines the interface for order business logic.
type OrderServiceInterface interface {
	Get(ctx context.Context, id, ownerID string) (*model.OrderResponse, error)
	ListByUser(ctx context.Context, userID string) ([]model.OrderResponse, error)
	ListAll(ctx context.Context, f model.OrderFilter) ([]model.OrderResponse, error)
	UpdateStatus(ctx context.Context, id string, req *model.UpdateOrderStatusRequest) (*model.OrderResponse, error)
}

// OrderHandler handles HTTP requests for checkout and order history.
type OrderHandler struct {
	checkout  CheckoutServiceInterface
	orders    OrderServiceInterface
	validator *validator.Validate
}

// NewOrderHandler creates a new OrderHandler with the given services and validator.
func NewOrderHandler(checkout CheckoutServiceInterface, orders OrderServiceInterface, v *validator.Validate) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, validator: v}
}

// Checkout handles POST /api/checkout.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req model.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	userID := middleware.UserID(c)
	order, err := h.checkout.Checkout(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartEmpty):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart is empty"})
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		case errors.Is(err, service.ErrUsageLimitExceeded):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon usage limit exceeded"})
		case errors.Is(err, service.ErrCouponNotRedeemable):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "coupon not redeemable"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", userID).
			Msg("checkout failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", userID).
		Str("order_id", order.ID).
		Int("total", order.Total).
		Msg("order placed")

	return c.Status(fiber.StatusCreated).JSON(model.NewOrderResponse(order))
}

// ListMine handles GET /api/orders for the authenticated customer.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	orders, err := h.orders.ListByUser(c.Context(), middleware.UserID(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list orders")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(orders)
}

// Get handles GET /api/orders/:id for the authenticated customer.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.Get(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		log.Error().Err(err).Str("order_id", c.Params("id")).Msg("failed to get order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(order)
}

// ListAll handles GET /api/admin/orders with an optional status filter.
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	f := model.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	orders, err := h.orders.ListAll(c.Context(), f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: unknown status"})
		}
		log.Error().Err(err).Msg("failed to list orders")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(orders)
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req model.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	order, err := h.orders.UpdateStatus(c.Context(), c.Params("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		case errors.Is(err, service.ErrInvalidStatusTransition):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid status transition"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("order_id", c.Params("id")).Msg("failed to update order status")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("order_id", order.ID).
		Str("status", string(order.Status)).
		Msg("order status updated")

	return c.JSON(order)
}
