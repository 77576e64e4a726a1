package order

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// Create stores o with its items and empties the owner's cart in the same transaction.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	Get(ctx context.Context, userID, id string) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
	SetGatewayOrder(ctx context.Context, userID, id, gatewayOrderID string) error
	UpdatePayment(ctx context.Context, userID, id string, status domain.OrderStatus, payment domain.PaymentStatus, gatewayPaymentID string) (*domain.Order, error)
}
