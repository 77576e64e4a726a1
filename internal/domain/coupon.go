package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            string           `json:"-"`
	Code          string           `json:"code"`
	DiscountType  DiscountType     `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	Description   string           `json:"description,omitempty"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsedCount     int              `json:"used_count"`
	Active        bool             `json:"active"`
}

type CouponRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
	OrderID  string          `json:"order_id,omitempty"`
}

// CouponValidation is the successful answer to a validate request.
type CouponValidation struct {
	Coupon         Coupon          `json:"coupon"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Evaluate checks that c can be used on subtotal at now and returns the
// discount it grants. Percentage discounts are capped by MaxDiscount, and no
// discount ever exceeds the subtotal.
func (c Coupon) Evaluate(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case !c.Active:
		return decimal.Zero, Invalid("Coupon is not active")
	case c.ExpiresAt != nil && !now.Before(*c.ExpiresAt):
		return decimal.Zero, Invalid("Coupon has expired")
	case c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit:
		return decimal.Zero, Invalid("Coupon usage limit reached")
	case subtotal.LessThan(c.MinOrderValue):
		return decimal.Zero, Invalid("Minimum order value of %s required", c.MinOrderValue.StringFixed(2))
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	default:
		return decimal.Zero, fmt.Errorf("coupon %s: unknown discount type %q", c.Code, c.DiscountType)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount.Round(2), nil
}
