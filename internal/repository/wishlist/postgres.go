package wishlist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, product_id::text, variation_id, created_at
FROM wishlist_items
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.VariationID, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Add returns domain.ErrAlreadyExists when the product and variation are already saved.
func (r *postgresRepo) Add(ctx context.Context, userID, productID, variationID string) (*domain.WishlistItem, error) {
	var it domain.WishlistItem
	err := r.pool.QueryRow(ctx, `
INSERT INTO wishlist_items (user_id, product_id, variation_id)
VALUES ($1, $2, $3)
RETURNING id::text, product_id::text, variation_id, created_at
`, userID, productID, variationID).Scan(&it.ID, &it.ProductID, &it.VariationID, &it.CreatedAt)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &it, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
