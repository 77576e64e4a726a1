package domain

import "github.com/shopspring/decimal"

// PaymentSettings toggles payment methods store wide.
type PaymentSettings struct {
	CODEnabled           bool            `json:"cod_enabled"`
	CODMinOrderValue     decimal.Decimal `json:"cod_min_order_value"`
	CODMaxOrderValue     decimal.Decimal `json:"cod_max_order_value"`
	OnlinePaymentEnabled bool            `json:"online_payment_enabled"`
	PayPalEnabled        bool            `json:"paypal_enabled"`
	BankTransferEnabled  bool            `json:"bank_transfer_enabled"`
}

// CODAvailable reports whether cash on delivery may be used for total.
// Both bounds are inclusive.
func (s PaymentSettings) CODAvailable(total decimal.Decimal) bool {
	return s.CODEnabled &&
		total.GreaterThanOrEqual(s.CODMinOrderValue) &&
		total.LessThanOrEqual(s.CODMaxOrderValue)
}

// Allows reports whether method t can pay for an order of the given total.
func (s PaymentSettings) Allows(t PaymentMethodType, total decimal.Decimal) bool {
	switch t {
	case PaymentCOD:
		return s.CODAvailable(total)
	case PaymentRazorpay:
		return s.OnlinePaymentEnabled
	case PaymentPayPal:
		return s.PayPalEnabled
	case PaymentBankTransfer:
		return s.BankTransferEnabled
	case PaymentCard:
		return true
	default:
		return false
	}
}
