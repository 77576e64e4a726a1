package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string           `json:"_id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Currency    string           `json:"currency"`
	Stock       int              `json:"stock"`
	CreatedAt   time.Time        `json:"created_at,omitzero"`
}
