package paymentmethod

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	Get(ctx context.Context, userID, id string) (*domain.PaymentMethod, error)
	Create(ctx context.Context, userID string, pm domain.PaymentMethod) (*domain.PaymentMethod, error)
}
