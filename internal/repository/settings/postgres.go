package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context) (*domain.PaymentSettings, error) {
	const q = `
SELECT cod_enabled, cod_min_order_cents, cod_max_order_cents, online_payment_enabled, paypal_enabled, bank_transfer_enabled
FROM payment_settings
WHERE id = 1
`
	var (
		s        domain.PaymentSettings
		minCents, maxCents int64
	)
	err := r.pool.QueryRow(ctx, q).Scan(&s.CODEnabled, &minCents, &maxCents, &s.OnlinePaymentEnabled, &s.PayPalEnabled, &s.BankTransferEnabled)
	if err != nil {
		return nil, db.MapError(err)
	}
	s.CODMinOrderValue = domain.FromPaise(minCents)
	s.CODMaxOrderValue = domain.FromPaise(maxCents)
	return &s, nil
}

func (r *postgresRepo) Save(ctx context.Context, s domain.PaymentSettings) error {
	const q = `
INSERT INTO payment_settings (id, cod_enabled, cod_min_order_cents, cod_max_order_cents, online_payment_enabled, paypal_enabled, bank_transfer_enabled)
VALUES (1, $1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    cod_enabled = EXCLUDED.cod_enabled,
    cod_min_order_cents = EXCLUDED.cod_min_order_cents,
    cod_max_order_cents = EXCLUDED.cod_max_order_cents,
    online_payment_enabled = EXCLUDED.online_payment_enabled,
    paypal_enabled = EXCLUDED.paypal_enabled,
    bank_transfer_enabled = EXCLUDED.bank_transfer_enabled,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q,
		s.CODEnabled,
		domain.ToPaise(s.CODMinOrderValue),
		domain.ToPaise(s.CODMaxOrderValue),
		s.OnlinePaymentEnabled,
		s.PayPalEnabled,
		s.BankTransferEnabled,
	)
	return err
}
