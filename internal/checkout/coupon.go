package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

// CouponResolver holds the coupon applied to the current checkout.
type CouponResolver struct {
	api    API
	notify Notifier
	logger *zap.Logger

	mu       sync.Mutex
	coupon   *domain.Coupon
	discount decimal.Decimal
	errMsg   string
}

func NewCouponResolver(api API, notify Notifier, logger *zap.Logger) *CouponResolver {
	return &CouponResolver{api: api, notify: notify, logger: logging.OrNop(logger)}
}

// Apply validates code against subtotal. A rejected code clears any
// previously applied discount.
func (r *CouponResolver) Apply(ctx context.Context, code string, subtotal decimal.Decimal) error {
	code = strings.TrimSpace(code)
	if code == "" {
		const msg = "Please enter a coupon code"
		r.set(nil, decimal.Zero, msg)
		r.notify.Error(msg)
		return invalid(msg)
	}
	res, err := r.api.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		r.set(nil, decimal.Zero, err.Error())
		r.notify.Error(err.Error())
		return err
	}
	c := res.Coupon
	r.set(&c, res.DiscountAmount, "")
	r.notify.Success("Coupon applied successfully")
	return nil
}

func (r *CouponResolver) Remove() {
	r.set(nil, decimal.Zero, "")
}

func (r *CouponResolver) set(c *domain.Coupon, discount decimal.Decimal, msg string) {
	r.mu.Lock()
	r.coupon, r.discount, r.errMsg = c, discount, msg
	r.mu.Unlock()
}

func (r *CouponResolver) Discount() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.discount
}

// Code is the applied coupon code, or "".
func (r *CouponResolver) Code() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coupon == nil {
		return ""
	}
	return r.coupon.Code
}

// Err is the message of the last failed Apply, cleared by a success or Remove.
func (r *CouponResolver) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}

// Commit records the coupon against a created order. Failures are only logged.
func (r *CouponResolver) Commit(ctx context.Context, orderID string) {
	code := r.Code()
	if code == "" {
		return
	}
	if err := r.api.ApplyCoupon(ctx, code, orderID); err != nil {
		r.logger.Warn("coupon apply after order failed",
			zap.String("code", code),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}
}
