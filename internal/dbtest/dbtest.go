// Package dbtest provides a migrated Postgres pool for repository tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/migrate"
)

// Pool connects to TEST_DB_DSN, applies migrations and empties every table.
// Tests are skipped when TEST_DB_DSN is unset.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `
TRUNCATE coupon_redemptions, order_items, orders, coupons, payment_methods, addresses,
         wishlist_items, cart_items, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	if _, err := pool.Exec(ctx, `
UPDATE payment_settings
SET cod_enabled = true, cod_min_order_cents = 0, cod_max_order_cents = 1000000,
    online_payment_enabled = true, paypal_enabled = false, bank_transfer_enabled = false`); err != nil {
		t.Fatalf("reset settings: %v", err)
	}
	return pool
}

// InsertProduct adds a product and returns its id.
func InsertProduct(t *testing.T, pool *pgxpool.Pool, sku string, priceCents int64, salePriceCents *int64) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO products (sku, name, price_cents, sale_price_cents, stock)
VALUES ($1, $1, $2, $3, 10)
RETURNING id::text`, sku, priceCents, salePriceCents).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}
