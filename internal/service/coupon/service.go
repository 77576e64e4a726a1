package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	couponrepo "storefront/internal/repository/coupon"
)

type Service struct {
	repo   couponRepo
	orders orderReader
	now    func() time.Time
	logger *zap.Logger
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Redeem(ctx context.Context, code, orderID, userID string) error
}

type orderReader interface {
	Get(ctx context.Context, userID, id string) (*domain.Order, error)
}

func New(repo couponRepo, orders orderReader, logger *zap.Logger) *Service {
	return &Service{repo: repo, orders: orders, now: time.Now, logger: logging.OrNop(logger)}
}

// Validate looks up code and computes the discount it gives on subtotal.
func (s *Service) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponValidation, error) {
	c, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if subtotal.IsNegative() {
		return nil, domain.Invalid("subtotal must not be negative")
	}
	discount, err := c.Evaluate(subtotal, s.now())
	if err != nil {
		return nil, err
	}
	return &domain.CouponValidation{Coupon: *c, DiscountAmount: discount}, nil
}

// Apply records that code was used on the caller's order. It only accepts the
// code the order was placed with, and applying it twice to one order counts once.
func (s *Service) Apply(ctx context.Context, userID, code, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return domain.Invalid("order_id required")
	}
	c, err := s.lookup(ctx, code)
	if err != nil {
		return err
	}
	order, err := s.orders.Get(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(order.CouponCode, c.Code) {
		return domain.Invalid("Coupon was not used on this order")
	}
	err = s.repo.Redeem(ctx, c.Code, order.ID, userID)
	if errors.Is(err, couponrepo.ErrUsageLimitReached) {
		return domain.Invalid("Coupon usage limit reached")
	}
	if err != nil {
		return err
	}
	s.logger.Info("coupon redeemed", zap.String("code", c.Code), zap.String("order_id", order.ID))
	return nil
}

func (s *Service) lookup(ctx context.Context, code string) (*domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.Invalid("code required")
	}
	c, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Invalid("Invalid coupon code")
	}
	return c, err
}
