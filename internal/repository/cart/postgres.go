package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

const itemColumns = `id::text, product_id::text, variation_id, name, quantity, price_cents, sale_price_cents, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+itemColumns+`
FROM cart_items
WHERE user_id = $1
ORDER BY created_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, userID, id string) (*domain.CartItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, `
SELECT `+itemColumns+`
FROM cart_items
WHERE user_id = $1 AND id = $2
`, userID, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return item, nil
}

// Add puts quantity units of product into the cart. An existing line for the
// same product and variation is topped up and its price snapshot refreshed.
func (r *postgresRepo) Add(ctx context.Context, userID string, product domain.Product, variationID string, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	price := domain.ToPaise(product.Price)
	salePrice := domain.OptionalPaise(product.SalePrice)

	var lineID string
	err = tx.QueryRow(ctx, `
SELECT id::text
FROM cart_items
WHERE user_id = $1 AND product_id = $2 AND variation_id = $3
FOR UPDATE
`, userID, product.ID, variationID).Scan(&lineID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var item *domain.CartItem
	if err == nil {
		item, err = scanItem(tx.QueryRow(ctx, `
UPDATE cart_items
SET quantity = quantity + $1, price_cents = $2, sale_price_cents = $3, name = $4
WHERE id = $5
RETURNING `+itemColumns, quantity, price, salePrice, product.Name, lineID))
	} else {
		item, err = scanItem(tx.QueryRow(ctx, `
INSERT INTO cart_items (user_id, product_id, variation_id, name, quantity, price_cents, sale_price_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+itemColumns, userID, product.ID, variationID, product.Name, quantity, price, salePrice))
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE user_id = $2 AND id = $3
RETURNING `+itemColumns, quantity, userID, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return item, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.CartItem, error) {
	var (
		item      domain.CartItem
		price     int64
		salePrice *int64
	)
	if err := row.Scan(
		&item.ID,
		&item.ProductID,
		&item.VariationID,
		&item.Name,
		&item.Quantity,
		&price,
		&salePrice,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.Price = domain.FromPaise(price)
	item.SalePrice = domain.OptionalFromPaise(salePrice)
	return &item, nil
}
