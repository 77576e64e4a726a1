package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// FromPaise converts an integer amount of minor units into rupees.
func FromPaise(p int64) decimal.Decimal {
	return decimal.New(p, -2)
}

// ToPaise converts rupees into integer minor units, rounding to the nearest paisa.
func ToPaise(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

func OptionalPaise(d *decimal.Decimal) *int64 {
	if d == nil {
		return nil
	}
	v := ToPaise(*d)
	return &v
}

func OptionalFromPaise(p *int64) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := FromPaise(*p)
	return &v
}
