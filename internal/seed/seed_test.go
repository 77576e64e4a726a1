package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type memWriters struct {
	products map[string]domain.Product
	coupons  map[string]domain.Coupon
	settings *domain.PaymentSettings
	failOn   string
}

func (m *memWriters) UpsertProduct(p domain.Product) error {
	if m.failOn == p.SKU {
		return errors.New("boom")
	}
	m.products[p.SKU] = p
	return nil
}

type productWriter struct{ m *memWriters }
type couponWriter struct{ m *memWriters }
type settingsWriter struct{ m *memWriters }

func (w productWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if err := w.m.UpsertProduct(p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (w couponWriter) Upsert(_ context.Context, c domain.Coupon) (*domain.Coupon, error) {
	w.m.coupons[c.Code] = c
	return &c, nil
}

func (w settingsWriter) Save(_ context.Context, s domain.PaymentSettings) error {
	w.m.settings = &s
	return nil
}

func newMem() (*memWriters, Writers) {
	m := &memWriters{products: map[string]domain.Product{}, coupons: map[string]domain.Coupon{}}
	return m, Writers{Products: productWriter{m}, Coupons: couponWriter{m}, Settings: settingsWriter{m}}
}

func TestApplyIsIdempotent(t *testing.T) {
	m, w := newMem()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, w, nil))
	require.NoError(t, Apply(ctx, w, nil))

	assert.Len(t, m.products, len(Products()))
	assert.Len(t, m.coupons, 2)
	require.NotNil(t, m.settings)
	assert.True(t, m.settings.CODEnabled)
}

func TestApplyStopsOnError(t *testing.T) {
	m, w := newMem()
	m.failOn = "SAREE-SILK"

	err := Apply(context.Background(), w, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAREE-SILK")
	assert.Empty(t, m.coupons)
	assert.Nil(t, m.settings)
}

func TestDemoCouponsDiscount(t *testing.T) {
	now := time.Now()
	byCode := map[string]domain.Coupon{}
	for _, c := range Coupons() {
		byCode[c.Code] = c
	}

	d, err := byCode["SAVE10"].Evaluate(decimal.NewFromInt(1000), now)
	require.NoError(t, err)
	assert.Equal(t, "100.00", d.StringFixed(2))

	d, err = byCode["WELCOME15"].Evaluate(decimal.NewFromInt(4000), now)
	require.NoError(t, err)
	assert.Equal(t, "300.00", d.StringFixed(2))
}
