package product

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const productColumns = `id::text, sku, name, COALESCE(description, ''), price_cents, sale_price_cents, currency, stock, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, description, price_cents, sale_price_cents, currency, stock)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    currency = EXCLUDED.currency,
    stock = EXCLUDED.stock
RETURNING ` + productColumns
	currency := product.Currency
	if currency == "" {
		currency = "INR"
	}
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.SKU,
		product.Name,
		product.Description,
		domain.ToPaise(product.Price),
		domain.OptionalPaise(product.SalePrice),
		currency,
		product.Stock,
	))
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("sku", product.SKU), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: upserted", zap.String("sku", res.SKU), zap.String("id", res.ID))
	return res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p         domain.Product
		price     int64
		salePrice *int64
	)
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &price, &salePrice, &p.Currency, &p.Stock, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Price = domain.FromPaise(price)
	p.SalePrice = domain.OptionalFromPaise(salePrice)
	return &p, nil
}
