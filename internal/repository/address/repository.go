package address

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists a user's saved addresses.
type Repository interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Get(ctx context.Context, userID, id string) (*domain.Address, error)
	Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
}
