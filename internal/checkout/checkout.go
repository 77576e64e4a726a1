// Package checkout drives the storefront checkout from the client side: the
// cart, coupon, address and payment selections, order submission and the
// Razorpay hand-off. All totals it computes are display estimates; the order
// returned by the API is authoritative.
package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	ErrItemBusy          = errors.New("item is already being updated")
	ErrSubmitInProgress  = errors.New("order submission already in progress")
	ErrGatewayNotLoaded  = errors.New("payment gateway not loaded")
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// ValidationError is raised before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Notifier shows short, non-blocking messages to the shopper.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator moves the shopper to another page, e.g. "/orders/{id}".
type Navigator interface {
	Navigate(path string)
}

// API is the part of the storefront API the checkout uses.
// *apiclient.Client implements it.
type API interface {
	Cart(ctx context.Context) ([]domain.CartItem, error)
	UpdateCartItem(ctx context.Context, id string, quantity int) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, id string) error
	AddToWishlist(ctx context.Context, productID, variationID string) (*domain.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, id string) error
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponValidation, error)
	ApplyCoupon(ctx context.Context, code, orderID string) error
	Addresses(ctx context.Context) ([]domain.Address, error)
	CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, in domain.NewPaymentMethod) (*domain.PaymentMethod, error)
	PaymentSettings(ctx context.Context) (*domain.PaymentSettings, error)
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	CreateGatewayOrder(ctx context.Context, req domain.GatewayOrderRequest) (*domain.GatewayOrder, error)
	VerifyPayment(ctx context.Context, v domain.PaymentVerification) (string, error)
}

func orderPath(id string) string {
	return "/orders/" + id
}
