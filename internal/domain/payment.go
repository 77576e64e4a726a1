package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethodType string

const (
	PaymentCard         PaymentMethodType = "credit-card"
	PaymentPayPal       PaymentMethodType = "paypal"
	PaymentCOD          PaymentMethodType = "cod"
	PaymentRazorpay     PaymentMethodType = "razorpay"
	PaymentBankTransfer PaymentMethodType = "bank-transfer"
)

func (t PaymentMethodType) Valid() bool {
	switch t {
	case PaymentCard, PaymentPayPal, PaymentCOD, PaymentRazorpay, PaymentBankTransfer:
		return true
	}
	return false
}

// PaymentDetails is the variant part of a saved payment method. Each method
// type has exactly one implementation carrying only the fields it needs.
type PaymentDetails interface {
	Type() PaymentMethodType
}

type CardDetails struct {
	HolderName  string
	Last4       string
	ExpiryMonth string
	ExpiryYear  string
}

type PayPalDetails struct {
	Email string
}

type CODDetails struct{}

type RazorpayDetails struct{}

type BankTransferDetails struct {
	AccountName string
}

func (CardDetails) Type() PaymentMethodType         { return PaymentCard }
func (PayPalDetails) Type() PaymentMethodType       { return PaymentPayPal }
func (CODDetails) Type() PaymentMethodType          { return PaymentCOD }
func (RazorpayDetails) Type() PaymentMethodType     { return PaymentRazorpay }
func (BankTransferDetails) Type() PaymentMethodType { return PaymentBankTransfer }

type PaymentMethod struct {
	ID        string
	Details   PaymentDetails
	IsDefault bool
	CreatedAt time.Time
}

func (m PaymentMethod) Type() PaymentMethodType {
	if m.Details == nil {
		return ""
	}
	return m.Details.Type()
}

type paymentMethodWire struct {
	ID          string            `json:"_id,omitempty"`
	Type        PaymentMethodType `json:"type"`
	CardHolder  string            `json:"card_holder,omitempty"`
	CardLast4   string            `json:"card_last4,omitempty"`
	ExpiryMonth string            `json:"expiry_month,omitempty"`
	ExpiryYear  string            `json:"expiry_year,omitempty"`
	PayPalEmail string            `json:"paypal_email,omitempty"`
	AccountName string            `json:"account_name,omitempty"`
	IsDefault   bool              `json:"is_default"`
	CreatedAt   time.Time         `json:"created_at,omitzero"`
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	w := paymentMethodWire{ID: m.ID, IsDefault: m.IsDefault, CreatedAt: m.CreatedAt}
	switch d := m.Details.(type) {
	case CardDetails:
		w.Type = PaymentCard
		w.CardHolder = d.HolderName
		w.CardLast4 = d.Last4
		w.ExpiryMonth = d.ExpiryMonth
		w.ExpiryYear = d.ExpiryYear
	case PayPalDetails:
		w.Type = PaymentPayPal
		w.PayPalEmail = d.Email
	case CODDetails:
		w.Type = PaymentCOD
	case RazorpayDetails:
		w.Type = PaymentRazorpay
	case BankTransferDetails:
		w.Type = PaymentBankTransfer
		w.AccountName = d.AccountName
	default:
		return nil, fmt.Errorf("payment method %q: unknown details %T", m.ID, m.Details)
	}
	return json.Marshal(w)
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var w paymentMethodWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Type {
	case PaymentCard:
		m.Details = CardDetails{HolderName: w.CardHolder, Last4: w.CardLast4, ExpiryMonth: w.ExpiryMonth, ExpiryYear: w.ExpiryYear}
	case PaymentPayPal:
		m.Details = PayPalDetails{Email: w.PayPalEmail}
	case PaymentCOD:
		m.Details = CODDetails{}
	case PaymentRazorpay:
		m.Details = RazorpayDetails{}
	case PaymentBankTransfer:
		m.Details = BankTransferDetails{AccountName: w.AccountName}
	default:
		return fmt.Errorf("unknown payment method type %q", w.Type)
	}
	m.ID = w.ID
	m.IsDefault = w.IsDefault
	m.CreatedAt = w.CreatedAt
	return nil
}

// NewPaymentMethod is the body of a create payment method request. The full
// card number is only ever sent here; saved methods keep the last four digits.
type NewPaymentMethod struct {
	Type        PaymentMethodType `json:"type"`
	CardNumber  string            `json:"card_number,omitempty"`
	CardHolder  string            `json:"card_holder,omitempty"`
	ExpiryMonth string            `json:"expiry_month,omitempty"`
	ExpiryYear  string            `json:"expiry_year,omitempty"`
	PayPalEmail string            `json:"paypal_email,omitempty"`
	AccountName string            `json:"account_name,omitempty"`
	IsDefault   bool              `json:"is_default"`
}

// GatewayOrder is what the client needs to open the Razorpay checkout.
type GatewayOrder struct {
	Key         string `json:"key"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	OrderID     string `json:"orderId"`
	Receipt     string `json:"receipt,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// GatewayOrderRequest asks the server to open a gateway order. Amount is the
// client's displayed total and is only compared against the stored order.
type GatewayOrderRequest struct {
	OrderID string           `json:"orderId"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// PaymentVerification carries the triple returned by the gateway on completion.
type PaymentVerification struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"orderId"`
}
