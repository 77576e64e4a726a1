package coupon

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront/internal/db"
	"storefront/internal/domain"
)

const couponColumns = `id::text, code, discount_type, discount_value::text, description, min_order_cents, max_discount_cents, expires_at, usage_limit, used_count, active`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE upper(code) = upper($1)`, code))
	if err != nil {
		return nil, db.MapError(err)
	}
	return c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, discount_type, discount_value, description, min_order_cents, max_discount_cents, expires_at, usage_limit, active)
VALUES (upper($1), $2, $3::text::numeric, $4, $5, $6, $7, $8, $9)
ON CONFLICT (code) DO UPDATE SET
    discount_type = EXCLUDED.discount_type,
    discount_value = EXCLUDED.discount_value,
    description = EXCLUDED.description,
    min_order_cents = EXCLUDED.min_order_cents,
    max_discount_cents = EXCLUDED.max_discount_cents,
    expires_at = EXCLUDED.expires_at,
    usage_limit = EXCLUDED.usage_limit,
    active = EXCLUDED.active
RETURNING ` + couponColumns
	return scanCoupon(r.pool.QueryRow(ctx, q,
		c.Code,
		string(c.DiscountType),
		c.DiscountValue.String(),
		c.Description,
		domain.ToPaise(c.MinOrderValue),
		domain.OptionalPaise(c.MaxDiscount),
		c.ExpiresAt,
		c.UsageLimit,
		c.Active,
	))
}

func (r *postgresRepo) Redeem(ctx context.Context, code, orderID, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		couponID  string
		limit     *int
		usedCount int
	)
	err = tx.QueryRow(ctx, `
SELECT id::text, usage_limit, used_count
FROM coupons
WHERE upper(code) = upper($1)
FOR UPDATE
`, code).Scan(&couponID, &limit, &usedCount)
	if err != nil {
		return db.MapError(err)
	}

	var already bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupon_redemptions WHERE order_id = $1)`, orderID).Scan(&already); err != nil {
		return err
	}
	if already {
		return nil
	}
	if limit != nil && usedCount >= *limit {
		return ErrUsageLimitReached
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO coupon_redemptions (id, coupon_id, order_id, user_id)
VALUES ($1, $2, $3, $4)
`, uuid.New(), couponID, orderID, userID); err != nil {
		return db.MapError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE coupons SET used_count = used_count + 1 WHERE id = $1`, couponID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var (
		c           domain.Coupon
		typ         string
		value       string
		minOrder    int64
		maxDiscount *int64
	)
	if err := row.Scan(
		&c.ID,
		&c.Code,
		&typ,
		&value,
		&c.Description,
		&minOrder,
		&maxDiscount,
		&c.ExpiresAt,
		&c.UsageLimit,
		&c.UsedCount,
		&c.Active,
	); err != nil {
		return nil, err
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("coupon %s: discount value %q: %w", c.Code, value, err)
	}
	c.DiscountType = domain.DiscountType(typ)
	c.DiscountValue = v
	c.MinOrderValue = domain.FromPaise(minOrder)
	c.MaxDiscount = domain.OptionalFromPaise(maxDiscount)
	return &c, nil
}

