package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schema holds the idempotent DDL for the storefront tables, applied in order
// at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT,
		role TEXT NOT NULL DEFAULT 'customer',
		is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		price INTEGER NOT NULL CHECK (price >= 0),
		original_price INTEGER,
		image TEXT NOT NULL DEFAULT '',
		images TEXT[] NOT NULL DEFAULT '{}',
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sizes TEXT[] NOT NULL DEFAULT '{}',
		colors TEXT[] NOT NULL DEFAULT '{}',
		rating REAL NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		trending BOOLEAN NOT NULL DEFAULT FALSE,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		sku TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		size TEXT NOT NULL,
		color TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, product_id, size, color)
	)`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL CHECK (type IN ('percentage', 'fixed')),
		value INTEGER NOT NULL CHECK (value >= 1),
		min_order_value INTEGER NOT NULL DEFAULT 0,
		max_discount INTEGER,
		usage_limit INTEGER NOT NULL CHECK (usage_limit >= 1),
		used_count INTEGER NOT NULL DEFAULT 0,
		expiry_date TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (used_count >= 0 AND used_count <= usage_limit)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		subtotal INTEGER NOT NULL,
		discount INTEGER NOT NULL DEFAULT 0,
		shipping_fee INTEGER NOT NULL,
		tax INTEGER NOT NULL,
		total INTEGER NOT NULL,
		coupon_code TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		shipping_address JSONB NOT NULL,
		payment_method TEXT NOT NULL,
		tracking_number TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		name TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL,
		size TEXT NOT NULL,
		color TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
}

// Migrate applies the schema statements. Safe to run on every startup.
func Migrate(ctx context.Context, q TxQuerier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("database schema ensured")
	return nil
}
