package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/tax"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	VariationID string          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Order is the server's authoritative record. Totals here always win over
// anything a client displayed before submitting.
type Order struct {
	ID               string            `json:"_id"`
	UserID           string            `json:"-"`
	Items            []OrderItem       `json:"items"`
	ShippingAddress  Address           `json:"shipping_address"`
	BillingAddress   Address           `json:"billing_address"`
	PaymentMethod    PaymentMethodType `json:"payment_method"`
	PaymentMethodID  string            `json:"payment_method_id,omitempty"`
	CouponCode       string            `json:"coupon_code,omitempty"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	DiscountAmount   decimal.Decimal   `json:"discount_amount"`
	Shipping         decimal.Decimal   `json:"shipping"`
	Total            decimal.Decimal   `json:"total"`
	Currency         string            `json:"currency"`
	Status           OrderStatus       `json:"status"`
	PaymentStatus    PaymentStatus     `json:"payment_status"`
	GatewayOrderID   string            `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string            `json:"gateway_payment_id,omitempty"`
	Tax              *tax.Breakdown    `json:"tax,omitempty"`
	CreatedAt        time.Time         `json:"created_at,omitzero"`
	UpdatedAt        time.Time         `json:"updated_at,omitzero"`
}

// CreateOrderRequest is the body posted by the checkout page.
// DiscountAmount is what the client showed; the server recomputes it.
type CreateOrderRequest struct {
	ShippingAddress Address           `json:"shipping_address"`
	BillingAddress  Address           `json:"billing_address"`
	PaymentMethod   PaymentMethodType `json:"payment_method"`
	PaymentMethodID string            `json:"payment_method_id,omitempty"`
	CouponCode      string            `json:"coupon_code,omitempty"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
}
