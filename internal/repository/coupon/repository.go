package coupon

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// ErrUsageLimitReached is returned by Redeem when the coupon has no uses left.
var ErrUsageLimitReached = errors.New("coupon usage limit reached")

type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	// Redeem records one use of code for orderID. Redeeming the same order
	// twice is a no-op.
	Redeem(ctx context.Context, code, orderID, userID string) error
}
