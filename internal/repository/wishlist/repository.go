package wishlist

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID, variationID string) (*domain.WishlistItem, error)
	Delete(ctx context.Context, userID, id string) error
}
