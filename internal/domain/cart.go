package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID          string           `json:"_id"`
	ProductID   string           `json:"product_id"`
	VariationID string           `json:"variation_id,omitempty"`
	Name        string           `json:"name,omitempty"`
	Quantity    int              `json:"quantity"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	CreatedAt   time.Time        `json:"created_at,omitzero"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.SalePrice != nil {
		return *i.SalePrice
	}
	return i.Price
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal sums effective price times quantity over items.
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type WishlistItem struct {
	ID          string    `json:"_id"`
	ProductID   string    `json:"product_id"`
	VariationID string    `json:"variation_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}
