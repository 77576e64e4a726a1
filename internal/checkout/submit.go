package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/tax"
)

type State string

const (
	StateIdle            State = "idle"
	StateValidating      State = "validating"
	StateSubmitting      State = "submitting"
	StateAwaitingPayment State = "awaiting_payment"
	StateRedirecting     State = "redirecting"
	StateFailed          State = "failed"
)

// Components are the pieces of the checkout page an OrderSubmitter reads.
type Components struct {
	API       API
	Cart      *CartStore
	Coupons   *CouponResolver
	Addresses *AddressManager
	Payments  *PaymentMethodSelector
	Bridge    *RazorpayBridge
	Notify    Notifier
	Navigate  Navigator
}

type SubmitOptions struct {
	ShippingFee decimal.Decimal
	Tax         tax.Config
}

// Summary is the checkout's own projection of the order totals. It is an
// estimate; the created order carries the real figures.
type Summary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	Tax      tax.Breakdown
	Estimate bool
}

// OrderSubmitter validates the checkout, creates the order and hands gateway
// payments to the RazorpayBridge.
type OrderSubmitter struct {
	c      Components
	opts   SubmitOptions
	logger *zap.Logger

	mu          sync.Mutex
	state       State
	processing  bool
	billingForm *AddressForm
}

func NewOrderSubmitter(c Components, opts SubmitOptions, logger *zap.Logger) *OrderSubmitter {
	if opts.Tax.StoreState == "" {
		opts.Tax = tax.DefaultConfig()
	}
	return &OrderSubmitter{c: c, opts: opts, logger: logging.OrNop(logger), state: StateIdle}
}

func (s *OrderSubmitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *OrderSubmitter) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// SetBillingForm sets a billing address that differs from shipping. nil
// means billing is the same as shipping.
func (s *OrderSubmitter) SetBillingForm(f *AddressForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f == nil {
		s.billingForm = nil
		return
	}
	cp := *f
	s.billingForm = &cp
}

func (s *OrderSubmitter) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Summary projects the totals shown next to the submit button.
func (s *OrderSubmitter) Summary(shippingState string) Summary {
	subtotal := s.c.Cart.Subtotal()
	discount := s.c.Coupons.Discount()
	total := subtotal.Sub(discount).Add(s.opts.ShippingFee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: s.opts.ShippingFee,
		Total:    total,
		Tax:      tax.Compute(total, shippingState, s.opts.Tax),
		Estimate: true,
	}
}

// Submit runs the checkout once. Validation failures are reported before any
// request is made and leave the submitter idle.
func (s *OrderSubmitter) Submit(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	s.processing = true
	s.state = StateValidating
	billingForm := s.billingForm
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	req, err := s.validate(billingForm)
	if err != nil {
		s.c.Notify.Error(err.Error())
		s.setState(StateIdle)
		return nil, err
	}

	s.setState(StateSubmitting)
	order, err := s.c.API.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Warn("order creation failed", zap.Error(err))
		s.c.Notify.Error(err.Error())
		s.setState(StateFailed)
		return nil, err
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total", order.Total.StringFixed(2)),
	)
	s.c.Coupons.Commit(ctx, order.ID)

	if order.PaymentMethod == domain.PaymentRazorpay {
		s.setState(StateAwaitingPayment)
		if s.c.Bridge == nil {
			s.setState(StateFailed)
			s.c.Notify.Error(ErrGatewayNotLoaded.Error())
			return order, ErrGatewayNotLoaded
		}
		outcome, err := s.c.Bridge.Pay(ctx, order.ID, order.Total)
		switch outcome {
		case OutcomePaid:
			s.setState(StateRedirecting)
		case OutcomeFailed:
			s.setState(StateFailed)
		}
		return order, err
	}

	s.c.Notify.Success("Order placed successfully!")
	s.setState(StateRedirecting)
	s.c.Navigate.Navigate(orderPath(order.ID))
	return order, nil
}

func (s *OrderSubmitter) validate(billingForm *AddressForm) (domain.CreateOrderRequest, error) {
	if s.c.Cart.IsEmpty() {
		return domain.CreateOrderRequest{}, invalid("Your cart is empty")
	}
	shipping, err := s.c.Addresses.ShippingAddress()
	if err != nil {
		return domain.CreateOrderRequest{}, err
	}
	billing := shipping
	if billingForm != nil {
		if missing := billingForm.Missing(); len(missing) > 0 {
			return domain.CreateOrderRequest{}, invalid("Please fill in billing " + strings.Join(missing, ", "))
		}
		billing = billingForm.ToAddress()
	}

	method, methodID := s.c.Payments.Selected()
	if method == "" {
		return domain.CreateOrderRequest{}, invalid("Please select a payment method")
	}
	if s.c.Payments.NeedsCardDetails() {
		if err := s.c.Payments.ValidateCard(); err != nil {
			return domain.CreateOrderRequest{}, err
		}
	}
	if method == domain.PaymentCOD {
		if !IsCodAvailable(s.c.Payments.Settings(), s.Summary(shipping.State).Total) {
			return domain.CreateOrderRequest{}, invalid("Cash on delivery is not available for this order")
		}
	}

	shipping.ID, billing.ID = "", ""
	shipping.IsDefault, billing.IsDefault = false, false
	return domain.CreateOrderRequest{
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   method,
		PaymentMethodID: methodID,
		CouponCode:      s.c.Coupons.Code(),
		DiscountAmount:  s.c.Coupons.Discount(),
	}, nil
}

// IsValidation reports whether err was raised before any request was made.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
