package service

import (
	"context"
	"fmt"

	"github.com/heven-commerce/storefront/internal/model"
)

// UserService provides the admin user-management operations.
type UserService struct {
	users    UserRepositoryInterface
	orders   OrderRepositoryInterface
	products ProductRepositoryInterface
}

// NewUserService creates a new UserService with the given repositories.
// Orders and products feed the dashboard aggregates.
func NewUserService(users UserRepositoryInterface, orders OrderRepositoryInterface, products ProductRepositoryInterface) *UserService {
	return &UserService{users: users, orders: orders, products: products}
}

// List retrieves customers with their order aggregates.
func (s *UserService) List(ctx context.Context) ([]model.AdminUserRow, error) {
	return s.users.List(ctx)
}

// SetBlocked blocks or unblocks an account. Blocked users cannot log in.
// Returns ErrUserNotFound when the user doesn't exist.
func (s *UserService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return s.users.SetBlocked(ctx, id, blocked)
}

// DashboardStats aggregates the admin dashboard numbers.
func (s *UserService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	revenue, orderCount, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	recent, err := s.orders.Recent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	return &model.DashboardStats{
		TotalRevenue:  revenue,
		TotalOrders:   orderCount,
		TotalUsers:    userCount,
		TotalProducts: productCount,
		RecentOrders:  toResponses(recent),
	}, nil
}
