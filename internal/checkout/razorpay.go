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

// GatewayCheckout is the hosted payment dialog. Load prepares it once; Open
// shows it for a gateway order and blocks until the shopper finishes or
// closes it.
type GatewayCheckout interface {
	Load(ctx context.Context) error
	Open(ctx context.Context, order domain.GatewayOrder) (GatewayResult, error)
}

// GatewayResult is what the dialog hands back on completion.
type GatewayResult struct {
	OrderID   string
	PaymentID string
	Signature string
	Dismissed bool
}

type Outcome string

const (
	OutcomePaid      Outcome = "paid"
	OutcomeFailed    Outcome = "failed"
	OutcomeDismissed Outcome = "dismissed"
)

// RazorpayBridge takes a created order through the gateway and verification.
type RazorpayBridge struct {
	api      API
	gateway  GatewayCheckout
	notify   Notifier
	navigate Navigator
	logger   *zap.Logger

	mu         sync.Mutex
	loaded     bool
	processing bool
}

func NewRazorpayBridge(api API, gateway GatewayCheckout, notify Notifier, navigate Navigator, logger *zap.Logger) *RazorpayBridge {
	return &RazorpayBridge{api: api, gateway: gateway, notify: notify, navigate: navigate, logger: logging.OrNop(logger)}
}

// Load prepares the gateway. Later calls are no-ops once it succeeded.
func (b *RazorpayBridge) Load(ctx context.Context) error {
	b.mu.Lock()
	loaded := b.loaded
	b.mu.Unlock()
	if loaded {
		return nil
	}
	if err := b.gateway.Load(ctx); err != nil {
		b.logger.Error("payment gateway load failed", zap.Error(err))
		b.notify.Error("Failed to load payment gateway")
		return err
	}
	b.mu.Lock()
	b.loaded = true
	b.mu.Unlock()
	return nil
}

func (b *RazorpayBridge) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

func (b *RazorpayBridge) Processing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processing
}

// Pay opens the gateway for orderID and verifies the result. The success
// toast and the redirect happen only after verification succeeds.
func (b *RazorpayBridge) Pay(ctx context.Context, orderID string, amount decimal.Decimal) (Outcome, error) {
	b.mu.Lock()
	switch {
	case !b.loaded:
		b.mu.Unlock()
		b.notify.Error("Payment gateway is not loaded yet")
		return OutcomeFailed, ErrGatewayNotLoaded
	case b.processing:
		b.mu.Unlock()
		return OutcomeFailed, ErrPaymentInProgress
	}
	b.processing = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.processing = false
		b.mu.Unlock()
	}()

	gw, err := b.api.CreateGatewayOrder(ctx, domain.GatewayOrderRequest{OrderID: orderID, Amount: &amount})
	if err != nil {
		b.notify.Error("Failed to initiate payment: " + err.Error())
		return OutcomeFailed, err
	}

	res, err := b.gateway.Open(ctx, *gw)
	if err != nil {
		b.notify.Error("Payment failed: " + err.Error())
		return OutcomeFailed, err
	}
	if res.Dismissed {
		b.logger.Info("payment dialog dismissed", zap.String("order_id", orderID))
		return OutcomeDismissed, nil
	}
	if res.OrderID == "" {
		res.OrderID = gw.OrderID
	}

	verified, err := b.api.VerifyPayment(ctx, domain.PaymentVerification{
		RazorpayOrderID:   res.OrderID,
		RazorpayPaymentID: res.PaymentID,
		RazorpaySignature: res.Signature,
		OrderID:           orderID,
	})
	if err != nil {
		b.logger.Warn("payment verification failed", zap.String("order_id", orderID), zap.Error(err))
		b.notify.Error(withPrefix("Payment verification failed", err))
		return OutcomeFailed, err
	}
	if verified == "" {
		verified = orderID
	}
	b.notify.Success("Payment successful! Order placed.")
	b.navigate.Navigate(orderPath(verified))
	return OutcomePaid, nil
}

func withPrefix(prefix string, err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, prefix) {
		return msg
	}
	return prefix + ": " + msg
}
