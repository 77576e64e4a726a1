package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/tax"
)

type Service struct {
	orders   orderRepo
	cart     cartReader
	coupons  couponReader
	settings settingsReader
	methods  methodReader
	opts     Options
	now      func() time.Time
	logger   *zap.Logger
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	Get(ctx context.Context, userID, id string) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
}

type cartReader interface {
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type couponReader interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*domain.PaymentSettings, error)
}

type methodReader interface {
	Get(ctx context.Context, userID, id string) (*domain.PaymentMethod, error)
}

// Options are the store-wide pricing inputs.
type Options struct {
	ShippingFee decimal.Decimal
	Currency    string
	Tax         tax.Config
}

type Deps struct {
	Orders   orderRepo
	Cart     cartReader
	Coupons  couponReader
	Settings settingsReader
	Methods  methodReader
}

func New(deps Deps, opts Options, logger *zap.Logger) *Service {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &Service{
		orders:   deps.Orders,
		cart:     deps.Cart,
		coupons:  deps.Coupons,
		settings: deps.Settings,
		methods:  deps.Methods,
		opts:     opts,
		now:      time.Now,
		logger:   logging.OrNop(logger),
	}
}

// Create turns the caller's cart into an order. Prices, the discount and the
// total are all recomputed here; the request only names what to buy with.
func (s *Service) Create(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.Order, error) {
	items, err := s.cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.Invalid("Cart is empty")
	}

	shipping := req.ShippingAddress
	if missing := shipping.Missing(); len(missing) > 0 {
		return nil, domain.Invalid("shipping address is missing: %s", strings.Join(missing, ", "))
	}
	billing := req.BillingAddress
	switch missing := billing.Missing(); {
	case isBlank(billing):
		billing = shipping
	case len(missing) > 0:
		return nil, domain.Invalid("billing address is missing: %s", strings.Join(missing, ", "))
	}

	method, err := s.paymentMethod(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	subtotal := domain.Subtotal(items).Round(2)
	discount := decimal.Zero
	code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
	if code != "" {
		c, err := s.coupons.GetByCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("Invalid coupon code")
		}
		if err != nil {
			return nil, err
		}
		if discount, err = c.Evaluate(subtotal, s.now()); err != nil {
			return nil, err
		}
		code = c.Code
	}
	if !discount.Equal(req.DiscountAmount) {
		s.logger.Warn("client discount differs from server discount",
			zap.String("user_id", userID),
			zap.String("coupon", code),
			zap.String("client", req.DiscountAmount.String()),
			zap.String("server", discount.String()),
		)
	}

	total := subtotal.Sub(discount).Add(s.opts.ShippingFee)
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Allows(method, total) {
		return nil, domain.Invalid("Payment method %s is not available for this order", method)
	}

	status := domain.OrderPending
	if method == domain.PaymentCOD {
		status = domain.OrderConfirmed
	}
	order := domain.Order{
		UserID:          userID,
		Items:           snapshot(items),
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   method,
		PaymentMethodID: strings.TrimSpace(req.PaymentMethodID),
		CouponCode:      code,
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		Shipping:        s.opts.ShippingFee,
		Total:           total,
		Currency:        s.opts.Currency,
		Status:          status,
		PaymentStatus:   domain.PaymentPending,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", userID),
		zap.String("payment_method", string(method)),
		zap.String("total", total.StringFixed(2)),
	)
	s.attachTax(created)
	return created, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	o, err := s.orders.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.attachTax(o)
	return o, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.List(ctx, userID)
}

func (s *Service) attachTax(o *domain.Order) {
	b := tax.Compute(o.Total, o.ShippingAddress.State, s.opts.Tax)
	o.Tax = &b
}

// paymentMethod resolves the method type, preferring a saved method when one is named.
func (s *Service) paymentMethod(ctx context.Context, userID string, req domain.CreateOrderRequest) (domain.PaymentMethodType, error) {
	id := strings.TrimSpace(req.PaymentMethodID)
	if id == "" {
		if !req.PaymentMethod.Valid() {
			return "", domain.Invalid("payment_method required")
		}
		return req.PaymentMethod, nil
	}
	saved, err := s.methods.Get(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.Invalid("payment method not found")
	}
	if err != nil {
		return "", err
	}
	if req.PaymentMethod != "" && req.PaymentMethod != saved.Type() {
		return "", domain.Invalid("payment_method does not match the saved method")
	}
	return saved.Type(), nil
}

func snapshot(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderItem{
			ProductID:   it.ProductID,
			VariationID: it.VariationID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.EffectivePrice(),
			Total:       it.LineTotal().Round(2),
		})
	}
	return out
}

func isBlank(a domain.Address) bool {
	return len(a.Missing()) == 6 && strings.TrimSpace(a.AddressLine2) == ""
}
