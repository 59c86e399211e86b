package model

import "time"

// Role separates customers from back-office admins.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is an account record. PasswordHash never leaves the server.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	IsBlocked    bool       `json:"is_blocked"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// AdminUserRow is a user decorated with order aggregates for the admin listing.
type AdminUserRow struct {
	User
	TotalOrders int `json:"total_orders"`
	TotalSpent  int `json:"total_spent"`
}

// RegisterRequest is the DTO for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// LoginRequest is the DTO for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// AuthResponse carries the issued access token and the account it belongs to.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// DashboardStats is the admin dashboard aggregate.
// Revenue excludes cancelled orders.
type DashboardStats struct {
	TotalRevenue  int             `json:"total_revenue"`
	TotalOrders   int             `json:"total_orders"`
	TotalUsers    int             `json:"total_users"`
	TotalProducts int             `json:"total_products"`
	RecentOrders  []OrderResponse `json:"recent_orders"`
}
