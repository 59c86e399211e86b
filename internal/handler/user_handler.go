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

// AuthServiceInterface defines the interface for authentication logic.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}

// UserServiceInterface defines the interface for admin user management.
type UserServiceInterface interface {
	List(ctx context.Context) ([]model.AdminUserRow, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// UserHandler handles authentication and admin user-management endpoints.
type UserHandler struct {
	auth      AuthServiceInterface
	users     UserServiceInterface
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given services and validator.
func NewUserHandler(auth AuthServiceInterface, users UserServiceInterface, v *validator.Validate) *UserHandler {
	return &UserHandler{auth: auth, users: users, validator: v}
}

// Register handles POST /api/auth/register.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.auth.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		}
		log.Error().Err(err).Msg("failed to register user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/auth/login.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.auth.Login(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		case errors.Is(err, service.ErrUserBlocked):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account is blocked"})
		}
		log.Error().Err(err).Msg("failed to log in user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(resp)
}

// List handles GET /api/admin/users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(users)
}

// blockRequest toggles the block flag on an account.
type blockRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// SetBlocked handles PATCH /api/admin/users/:id/block.
func (h *UserHandler) SetBlocked(c *fiber.Ctx) error {
	var req blockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.users.SetBlocked(c.Context(), c.Params("id"), *req.Blocked); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		log.Error().Err(err).Str("user_id", c.Params("id")).Msg("failed to update block flag")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.users.DashboardStats(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to build dashboard stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}
