// Package tax derives the GST breakdown shown for a cart or an order.
//
// Amounts are treated as tax inclusive: the breakdown never changes the total
// it is computed from, it only splits it for display.
package tax

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultStoreState = "Madhya Pradesh"

var DefaultRate = decimal.RequireFromString("0.18")

const (
	LabelCGST = "CGST"
	LabelSGST = "SGST"
	LabelIGST = "IGST"
)

// Config is the store-wide tax configuration loaded once at startup.
type Config struct {
	StoreState string
	Rate       decimal.Decimal
}

func DefaultConfig() Config {
	return Config{StoreState: DefaultStoreState, Rate: DefaultRate}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.StoreState) == "" {
		return errors.New("STORE_STATE required")
	}
	if c.Rate.IsNegative() || c.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("TAX_RATE must be in [0, 1)")
	}
	return nil
}

type Line struct {
	Label  string          `json:"label"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

type Breakdown struct {
	IntraState bool            `json:"intra_state"`
	Base       decimal.Decimal `json:"base"`
	Tax        decimal.Decimal `json:"tax"`
	Lines      []Line          `json:"lines"`
}

// Line returns the breakdown line with the given label.
func (b Breakdown) Line(label string) (Line, bool) {
	for _, l := range b.Lines {
		if l.Label == label {
			return l, true
		}
	}
	return Line{}, false
}

// Compute splits total into its base and tax lines. Shipping to the store's
// own state yields equal CGST and SGST halves, anywhere else a single IGST line.
// CGST plus SGST always equals the IGST that the same total would produce.
func Compute(total decimal.Decimal, shippingState string, cfg Config) Breakdown {
	amount := total.Mul(cfg.Rate).Round(2)
	out := Breakdown{
		IntraState: SameState(shippingState, cfg.StoreState),
		Base:       total.Sub(amount),
		Tax:        amount,
	}
	if !out.IntraState {
		out.Lines = []Line{{Label: LabelIGST, Rate: cfg.Rate, Amount: amount}}
		return out
	}
	half := cfg.Rate.Div(decimal.NewFromInt(2))
	cgst := amount.Div(decimal.NewFromInt(2)).Round(2)
	out.Lines = []Line{
		{Label: LabelCGST, Rate: half, Amount: cgst},
		{Label: LabelSGST, Rate: half, Amount: amount.Sub(cgst)},
	}
	return out
}

// SameState compares state names ignoring case and surrounding whitespace.
func SameState(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
