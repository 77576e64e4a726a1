package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CouponWriter interface {
	Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
}

type SettingsWriter interface {
	Save(ctx context.Context, s domain.PaymentSettings) error
}

type Writers struct {
	Products ProductWriter
	Coupons  CouponWriter
	Settings SettingsWriter
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

// Products is the demo catalog.
func Products() []domain.Product {
	return []domain.Product{
		{SKU: "KURTA-COTTON-M", Name: "Cotton Kurta", Description: "Hand block printed cotton kurta", Price: price("1000"), Currency: "INR", Stock: 25},
		{SKU: "SAREE-SILK", Name: "Banarasi Silk Saree", Description: "Pure silk with zari border", Price: price("4500"), SalePrice: pricePtr("3999"), Currency: "INR", Stock: 8},
		{SKU: "DUPATTA-CHANDERI", Name: "Chanderi Dupatta", Description: "Lightweight chanderi weave", Price: price("1180"), Currency: "INR", Stock: 40},
		{SKU: "JUTI-LEATHER", Name: "Leather Juti", Price: price("850"), Currency: "INR", Stock: 0},
	}
}

// Coupons are the demo coupons: SAVE10 takes a flat ₹100 off, WELCOME15
// takes 15% up to ₹300.
func Coupons() []domain.Coupon {
	return []domain.Coupon{
		{
			Code:          "SAVE10",
			DiscountType:  domain.DiscountFixed,
			DiscountValue: price("100"),
			Description:   "Flat ₹100 off",
			MinOrderValue: price("500"),
			Active:        true,
		},
		{
			Code:          "WELCOME15",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: price("15"),
			Description:   "15% off your first order",
			MinOrderValue: decimal.Zero,
			MaxDiscount:   pricePtr("300"),
			Active:        true,
		},
	}
}

func Settings() domain.PaymentSettings {
	return domain.PaymentSettings{
		CODEnabled:           true,
		CODMinOrderValue:     price("100"),
		CODMaxOrderValue:     price("5000"),
		OnlinePaymentEnabled: true,
		PayPalEnabled:        false,
		BankTransferEnabled:  true,
	}
}

// Apply inserts basic seed data for manual testing. It is idempotent: every
// write is an upsert.
func Apply(ctx context.Context, w Writers, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	for _, p := range Products() {
		if _, err := w.Products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}
	for _, c := range Coupons() {
		if _, err := w.Coupons.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert coupon %s: %w", c.Code, err)
		}
	}
	if err := w.Settings.Save(ctx, Settings()); err != nil {
		return fmt.Errorf("save payment settings: %w", err)
	}
	logger.Info("seed applied",
		zap.Int("products", len(Products())),
		zap.Int("coupons", len(Coupons())),
	)
	return nil
}
