package address

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const addressColumns = `id::text, full_name, address_line1, address_line2, city, state, postal_code, country, phone, is_default, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+addressColumns+`
FROM addresses
WHERE user_id = $1
ORDER BY is_default DESC, created_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			r.logger.Error("address repo: scan", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx, `
SELECT `+addressColumns+`
FROM addresses
WHERE user_id = $1 AND id = $2
`, userID, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return a, nil
}

// Create stores a. The user's first address always becomes the default, and a
// new default replaces the previous one in the same transaction.
func (r *postgresRepo) Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('addresses:' || $1))`, userID); err != nil {
		return nil, err
	}

	var existing int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM addresses WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		return nil, err
	}
	if existing == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default`, userID); err != nil {
			return nil, err
		}
	}

	created, err := scanAddress(tx.QueryRow(ctx, `
INSERT INTO addresses (user_id, full_name, address_line1, address_line2, city, state, postal_code, country, phone, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+addressColumns,
		userID, a.FullName, a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault,
	))
	if err != nil {
		r.logger.Error("address repo: insert", zap.String("user_id", userID), zap.Error(err))
		return nil, db.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.AddressLine1,
		&a.AddressLine2,
		&a.City,
		&a.State,
		&a.PostalCode,
		&a.Country,
		&a.Phone,
		&a.IsDefault,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
