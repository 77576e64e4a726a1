package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const orderColumns = `
id::text, user_id, status, payment_status, payment_method, payment_method_id, coupon_code,
shipping_address, billing_address, subtotal_cents, discount_cents, shipping_cents, total_cents,
currency, gateway_order_id, gateway_payment_id, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	shipJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billJSON, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanOrder(tx.QueryRow(ctx, `
INSERT INTO orders (
    user_id, status, payment_status, payment_method, payment_method_id, coupon_code,
    shipping_address, billing_address, subtotal_cents, discount_cents, shipping_cents, total_cents, currency
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING `+orderColumns,
		o.UserID,
		string(o.Status),
		string(o.PaymentStatus),
		string(o.PaymentMethod),
		o.PaymentMethodID,
		o.CouponCode,
		shipJSON,
		billJSON,
		domain.ToPaise(o.Subtotal),
		domain.ToPaise(o.DiscountAmount),
		domain.ToPaise(o.Shipping),
		domain.ToPaise(o.Total),
		o.Currency,
	))
	if err != nil {
		r.logger.Error("order repo: insert", zap.String("user_id", o.UserID), zap.Error(err))
		return nil, err
	}

	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
INSERT INTO order_items (order_id, product_id, variation_id, name, quantity, unit_price_cents, total_cents, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, created.ID, it.ProductID, it.VariationID, it.Name, it.Quantity, domain.ToPaise(it.UnitPrice), domain.ToPaise(it.Total), i)
	}
	batch.Queue(`DELETE FROM cart_items WHERE user_id = $1`, o.UserID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	created.Items = o.Items
	r.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("total", created.Total.StringFixed(2)),
		zap.String("payment_method", string(created.PaymentMethod)),
	)
	return created, nil
}

func (r *postgresRepo) Get(ctx context.Context, userID, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND id = $2`, userID, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *postgresRepo) SetGatewayOrder(ctx context.Context, userID, id, gatewayOrderID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET gateway_order_id = $1, updated_at = now()
WHERE user_id = $2 AND id = $3
`, gatewayOrderID, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdatePayment(ctx context.Context, userID, id string, status domain.OrderStatus, payment domain.PaymentStatus, gatewayPaymentID string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
UPDATE orders
SET status = $1, payment_status = $2, gateway_payment_id = COALESCE(NULLIF($3, ''), gateway_payment_id), updated_at = now()
WHERE user_id = $4 AND id = $5 AND payment_status <> 'paid'
RETURNING `+orderColumns, string(status), string(payment), gatewayPaymentID, userID, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	r.logger.Info("order payment updated",
		zap.String("order_id", id),
		zap.String("status", string(status)),
		zap.String("payment_status", string(payment)),
	)
	return o, nil
}

func (r *postgresRepo) items(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT order_id::text, product_id::text, variation_id, name, quantity, unit_price_cents, total_cents
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, position
`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID     string
			it          domain.OrderItem
			unit, total int64
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.VariationID, &it.Name, &it.Quantity, &unit, &total); err != nil {
			return nil, err
		}
		it.UnitPrice = domain.FromPaise(unit)
		it.Total = domain.FromPaise(total)
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                                   domain.Order
		status, paymentStatus, method       string
		shipJSON, billJSON                  []byte
		subtotal, discount, shipping, total int64
	)
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&status,
		&paymentStatus,
		&method,
		&o.PaymentMethodID,
		&o.CouponCode,
		&shipJSON,
		&billJSON,
		&subtotal,
		&discount,
		&shipping,
		&total,
		&o.Currency,
		&o.GatewayOrderID,
		&o.GatewayPaymentID,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shipJSON, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("order %s: decode shipping address: %w", o.ID, err)
	}
	if err := json.Unmarshal(billJSON, &o.BillingAddress); err != nil {
		return nil, fmt.Errorf("order %s: decode billing address: %w", o.ID, err)
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	o.PaymentMethod = domain.PaymentMethodType(method)
	o.Subtotal = domain.FromPaise(subtotal)
	o.DiscountAmount = domain.FromPaise(discount)
	o.Shipping = domain.FromPaise(shipping)
	o.Total = domain.FromPaise(total)
	return &o, nil
}
