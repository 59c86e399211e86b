package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heven-commerce/storefront/internal/model"
	"github.com/heven-commerce/storefront/internal/service"
)

// UserRepository provides data access for user accounts using pgx.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a UserRepository with a custom pool
// interface. Primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, phone, role, is_blocked, created_at, last_login`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Role, &u.IsBlocked, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert inserts a new user account.
// Returns service.ErrEmailExists if the email is already registered.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
// Returns nil, nil if the user is not found (service layer handles this).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by ID.
// Returns nil, nil if the user is not found (service layer handles this).
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// List retrieves customers with their order aggregates for the admin listing,
// newest-first. Cancelled orders do not count toward spend.
func (r *UserRepository) List(ctx context.Context) ([]model.AdminUserRow, error) {
	query := `SELECT u.id, u.name, u.email, u.password_hash, u.phone, u.role, u.is_blocked,
			u.created_at, u.last_login,
			COUNT(o.id), COALESCE(SUM(o.total) FILTER (WHERE o.status <> 'cancelled'), 0)
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id
		WHERE u.role = 'customer'
		GROUP BY u.id
		ORDER BY u.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.AdminUserRow{}
	for rows.Next() {
		var row model.AdminUserRow
		err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.PasswordHash, &row.Phone,
			&row.Role, &row.IsBlocked, &row.CreatedAt, &row.LastLogin,
			&row.TotalOrders, &row.TotalSpent)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// SetBlocked flips the block flag on an account.
// Returns service.ErrUserNotFound when the user doesn't exist.
func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_blocked = $2 WHERE id = $1`, id, blocked)
	if err != nil {
		return fmt.Errorf("set blocked for user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the login time. Best-effort from the caller's view.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("update last_login for user %s: %w", id, err)
	}
	return nil
}

// Count returns the number of customer accounts, used by the admin dashboard.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'customer'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
