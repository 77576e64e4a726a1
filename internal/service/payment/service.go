package payment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/razorpay"
)

// ErrVerificationFailed is returned when the gateway signature does not match.
var ErrVerificationFailed = errors.New("payment verification failed")

type Service struct {
	orders    orderRepo
	gateway   gateway
	storeName string
	logger    *zap.Logger
}

type orderRepo interface {
	Get(ctx context.Context, userID, id string) (*domain.Order, error)
	SetGatewayOrder(ctx context.Context, userID, id, gatewayOrderID string) error
	UpdatePayment(ctx context.Context, userID, id string, status domain.OrderStatus, payment domain.PaymentStatus, gatewayPaymentID string) (*domain.Order, error)
}

type gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

func New(orders orderRepo, gw gateway, storeName string, logger *zap.Logger) *Service {
	return &Service{orders: orders, gateway: gw, storeName: storeName, logger: logging.OrNop(logger)}
}

// CreateGatewayOrder opens a Razorpay order for the stored order total.
// An amount sent by the client is only compared and logged.
func (s *Service) CreateGatewayOrder(ctx context.Context, userID string, req domain.GatewayOrderRequest) (*domain.GatewayOrder, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, domain.Invalid("orderId required")
	}
	order, err := s.orders.Get(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != domain.PaymentRazorpay {
		return nil, domain.Invalid("Order is not payable online")
	}
	if order.PaymentStatus == domain.PaymentPaid {
		return nil, domain.Invalid("Order is already paid")
	}
	amount := domain.ToPaise(order.Total)
	if req.Amount != nil && domain.ToPaise(*req.Amount) != amount {
		s.logger.Warn("client amount differs from order total",
			zap.String("order_id", order.ID),
			zap.String("client", req.Amount.String()),
			zap.String("order_total", order.Total.String()),
		)
	}

	gw, err := s.gateway.CreateOrder(ctx, amount, order.Currency, order.ID, map[string]string{"order_id": order.ID})
	if err != nil {
		return nil, err
	}
	if err := s.orders.SetGatewayOrder(ctx, userID, order.ID, gw.ID); err != nil {
		return nil, err
	}
	return &domain.GatewayOrder{
		Key:         s.gateway.KeyID(),
		Amount:      gw.Amount,
		Currency:    gw.Currency,
		OrderID:     gw.ID,
		Receipt:     order.ID,
		Name:        s.storeName,
		Description: "Order " + shortID(order.ID),
	}, nil
}

// Verify checks the gateway signature and settles the order. A failed check
// marks the payment failed and leaves the order pending. A paid order is
// never written again.
func (s *Service) Verify(ctx context.Context, userID string, v domain.PaymentVerification) (*domain.Order, error) {
	if v.OrderID == "" || v.RazorpayOrderID == "" || v.RazorpayPaymentID == "" || v.RazorpaySignature == "" {
		return nil, domain.Invalid("Missing payment verification fields")
	}
	order, err := s.orders.Get(ctx, userID, v.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPaid {
		if order.GatewayPaymentID == v.RazorpayPaymentID {
			return order, nil
		}
		s.logger.Warn("verify on paid order",
			zap.String("order_id", order.ID),
			zap.String("gateway_payment_id", v.RazorpayPaymentID),
		)
		return nil, ErrVerificationFailed
	}

	if order.GatewayOrderID != v.RazorpayOrderID || !s.gateway.VerifyPaymentSignature(v.RazorpayOrderID, v.RazorpayPaymentID, v.RazorpaySignature) {
		s.logger.Warn("payment signature rejected",
			zap.String("order_id", order.ID),
			zap.String("gateway_order_id", v.RazorpayOrderID),
			zap.String("gateway_payment_id", v.RazorpayPaymentID),
		)
		if _, err := s.orders.UpdatePayment(ctx, userID, order.ID, order.Status, domain.PaymentFailed, v.RazorpayPaymentID); err != nil {
			s.logger.Error("mark payment failed", zap.String("order_id", order.ID), zap.Error(err))
		}
		return nil, ErrVerificationFailed
	}

	paid, err := s.orders.UpdatePayment(ctx, userID, order.ID, domain.OrderConfirmed, domain.PaymentPaid, v.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment verified", zap.String("order_id", order.ID), zap.String("gateway_payment_id", v.RazorpayPaymentID))
	return paid, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + strings.ToUpper(id[:8])
	}
	return "#" + strings.ToUpper(id)
}
