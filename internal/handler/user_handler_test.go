package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
	"github.com/heven-commerce/storefront/internal/validator"
)

// mockAuthService is a mock implementation of AuthServiceInterface.
type mockAuthService struct {
	registerFn func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	loginFn    func(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, service.ErrInvalidCredentials
}

// mockUserService is a mock implementation of UserServiceInterface.
type mockUserService struct {
	listFn       func(ctx context.Context) ([]model.AdminUserRow, error)
	setBlockedFn func(ctx context.Context, id string, blocked bool) error
	dashboardFn  func(ctx context.Context) (*model.DashboardStats, error)
}

func (m *mockUserService) List(ctx context.Context) ([]model.AdminUserRow, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.AdminUserRow{}, nil
}

func (m *mockUserService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if m.setBlockedFn != nil {
		return m.setBlockedFn(ctx, id, blocked)
	}
	return nil
}

func (m *mockUserService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if m.dashboardFn != nil {
		return m.dashboardFn(ctx)
	}
	return &model.DashboardStats{}, nil
}

func newUserApp(auth AuthServiceInterface, users UserServiceInterface) *fiber.App {
	h := NewUserHandler(auth, users, validator.New())
	app := fiber.New()
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Get("/api/admin/users", h.List)
	app.Patch("/api/admin/users/:id/block", h.SetBlocked)
	app.Get("/api/admin/dashboard", h.Dashboard)
	return app
}

func TestUserHandler_Register_Success(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
			return &model.AuthResponse{
				Token: "signed-token",
				User:  model.User{ID: "u1", Name: req.Name, Email: req.Email, Role: model.RoleCustomer},
			}, nil
		},
	}
	app := newUserApp(auth, &mockUserService{})

	req := httptest.NewRequest("POST", "/api/auth/register", jsonReq(t, fiber.Map{
		"name": "John Doe", "email": "john@example.com", "password": "hunter2hunter2",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var body model.AuthResponse
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "signed-token", body.Token)
	assert.Equal(t, model.RoleCustomer, body.User.Role)
}

func TestUserHandler_Register_ShortPassword(t *testing.T) {
	app := newUserApp(&mockAuthService{}, &mockUserService{})

	req := httptest.NewRequest("POST", "/api/auth/register", jsonReq(t, fiber.Map{
		"name": "John Doe", "email": "john@example.com", "password": "short",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "invalid request: password must be at least 8 characters", body["error"])
}

func TestUserHandler_Register_EmailExists(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
			return nil, service.ErrEmailExists
		},
	}
	app := newUserApp(auth, &mockUserService{})

	req := httptest.NewRequest("POST", "/api/auth/register", jsonReq(t, fiber.Map{
		"name": "John Doe", "email": "john@example.com", "password": "hunter2hunter2",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	app := newUserApp(&mockAuthService{}, &mockUserService{})

	req := httptest.NewRequest("POST", "/api/auth/login", jsonReq(t, fiber.Map{
		"email": "john@example.com", "password": "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserHandler_Login_Blocked(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
			return nil, service.ErrUserBlocked
		},
	}
	app := newUserApp(auth, &mockUserService{})

	req := httptest.NewRequest("POST", "/api/auth/login", jsonReq(t, fiber.Map{
		"email": "john@example.com", "password": "hunter2hunter2",
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUserHandler_SetBlocked_Success(t *testing.T) {
	var gotID string
	var gotBlocked bool
	users := &mockUserService{
		setBlockedFn: func(ctx context.Context, id string, blocked bool) error {
			gotID, gotBlocked = id, blocked
			return nil
		},
	}
	app := newUserApp(&mockAuthService{}, users)

	req := httptest.NewRequest("PATCH", "/api/admin/users/u1/block", jsonReq(t, fiber.Map{
		"blocked": true,
	}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "u1", gotID)
	assert.True(t, gotBlocked)
}

func TestUserHandler_SetBlocked_MissingFlag(t *testing.T) {
	app := newUserApp(&mockAuthService{}, &mockUserService{})

	req := httptest.NewRequest("PATCH", "/api/admin/users/u1/block", jsonReq(t, fiber.Map{}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUserHandler_Dashboard_ReturnsStats(t *testing.T) {
	users := &mockUserService{
		dashboardFn: func(ctx context.Context) (*model.DashboardStats, error) {
			return &model.DashboardStats{
				TotalRevenue: 125000, TotalOrders: 42, TotalUsers: 17, TotalProducts: 88,
				RecentOrders: []model.OrderResponse{},
			}, nil
		},
	}
	app := newUserApp(&mockAuthService{}, users)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/dashboard", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats model.DashboardStats
	decodeBody(t, resp.Body, &stats)
	assert.Equal(t, 125000, stats.TotalRevenue)
	assert.Equal(t, 42, stats.TotalOrders)
}
