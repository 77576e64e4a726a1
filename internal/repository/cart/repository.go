package cart

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
	Get(ctx context.Context, userID, id string) (*domain.CartItem, error)
	Add(ctx context.Context, userID string, product domain.Product, variationID string, quantity int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, userID, id string) error
}
