package settings

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads and writes the single store-wide payment settings row.
type Repository interface {
	Get(ctx context.Context) (*domain.PaymentSettings, error)
	Save(ctx context.Context, s domain.PaymentSettings) error
}
