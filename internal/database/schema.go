package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the storefront DDL. Every statement is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL DEFAULT '',
		images TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_books_category ON books(category);

	CREATE TABLE IF NOT EXISTS promotions (
		code TEXT PRIMARY KEY CHECK (code = UPPER(code)),
		description TEXT NOT NULL DEFAULT '',
		discount_type TEXT NOT NULL CHECK (discount_type IN ('percentage', 'fixed')),
		discount_value NUMERIC(12, 2) NOT NULL CHECK (discount_value >= 0),
		min_amount BIGINT CHECK (min_amount >= 0),
		max_uses INTEGER CHECK (max_uses > 0),
		used_count INTEGER NOT NULL DEFAULT 0 CHECK (used_count >= 0),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT promotions_percentage_range CHECK (discount_type <> 'percentage' OR discount_value <= 100)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL,
		shipping_address TEXT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT 'cod',
		promotion_code TEXT REFERENCES promotions(code),
		subtotal BIGINT NOT NULL CHECK (subtotal >= 0),
		discount_amount BIGINT NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
		total BIGINT NOT NULL CHECK (total >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		book_id TEXT NOT NULL REFERENCES books(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
		position INTEGER NOT NULL DEFAULT 0
	);
	ALTER TABLE order_items ADD COLUMN IF NOT EXISTS position INTEGER NOT NULL DEFAULT 0;
	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
