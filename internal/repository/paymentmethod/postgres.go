package paymentmethod

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

const methodColumns = `id::text, type, card_holder, card_last4, expiry_month, expiry_year, paypal_email, account_name, is_default, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// row is the flat table layout shared by every payment method type.
type row struct {
	Type        domain.PaymentMethodType
	CardHolder  string
	CardLast4   string
	ExpiryMonth string
	ExpiryYear  string
	PayPalEmail string
	AccountName string
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+methodColumns+`
FROM payment_methods
WHERE user_id = $1
ORDER BY is_default DESC, created_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.PaymentMethod{}
	for rows.Next() {
		pm, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pm)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, userID, id string) (*domain.PaymentMethod, error) {
	pm, err := scanMethod(r.pool.QueryRow(ctx, `
SELECT `+methodColumns+`
FROM payment_methods
WHERE user_id = $1 AND id = $2
`, userID, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return pm, nil
}

// Create stores pm, forcing the default flag on a user's first method and
// clearing the previous default when pm is marked default.
func (r *postgresRepo) Create(ctx context.Context, userID string, pm domain.PaymentMethod) (*domain.PaymentMethod, error) {
	flat, err := flatten(pm.Details)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('payment_methods:' || $1))`, userID); err != nil {
		return nil, err
	}

	var existing int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM payment_methods WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		return nil, err
	}
	isDefault := pm.IsDefault || existing == 0
	if isDefault {
		if _, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = false WHERE user_id = $1 AND is_default`, userID); err != nil {
			return nil, err
		}
	}

	created, err := scanMethod(tx.QueryRow(ctx, `
INSERT INTO payment_methods (user_id, type, card_holder, card_last4, expiry_month, expiry_year, paypal_email, account_name, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+methodColumns,
		userID, string(flat.Type), flat.CardHolder, flat.CardLast4, flat.ExpiryMonth, flat.ExpiryYear, flat.PayPalEmail, flat.AccountName, isDefault,
	))
	if err != nil {
		return nil, db.MapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func flatten(details domain.PaymentDetails) (row, error) {
	switch d := details.(type) {
	case domain.CardDetails:
		return row{Type: domain.PaymentCard, CardHolder: d.HolderName, CardLast4: d.Last4, ExpiryMonth: d.ExpiryMonth, ExpiryYear: d.ExpiryYear}, nil
	case domain.PayPalDetails:
		return row{Type: domain.PaymentPayPal, PayPalEmail: d.Email}, nil
	case domain.CODDetails:
		return row{Type: domain.PaymentCOD}, nil
	case domain.RazorpayDetails:
		return row{Type: domain.PaymentRazorpay}, nil
	case domain.BankTransferDetails:
		return row{Type: domain.PaymentBankTransfer, AccountName: d.AccountName}, nil
	default:
		return row{}, fmt.Errorf("unsupported payment details %T", details)
	}
}

func scanMethod(r pgx.Row) (*domain.PaymentMethod, error) {
	var (
		pm   domain.PaymentMethod
		flat row
		typ  string
	)
	if err := r.Scan(
		&pm.ID,
		&typ,
		&flat.CardHolder,
		&flat.CardLast4,
		&flat.ExpiryMonth,
		&flat.ExpiryYear,
		&flat.PayPalEmail,
		&flat.AccountName,
		&pm.IsDefault,
		&pm.CreatedAt,
	); err != nil {
		return nil, err
	}
	switch domain.PaymentMethodType(typ) {
	case domain.PaymentCard:
		pm.Details = domain.CardDetails{HolderName: flat.CardHolder, Last4: flat.CardLast4, ExpiryMonth: flat.ExpiryMonth, ExpiryYear: flat.ExpiryYear}
	case domain.PaymentPayPal:
		pm.Details = domain.PayPalDetails{Email: flat.PayPalEmail}
	case domain.PaymentCOD:
		pm.Details = domain.CODDetails{}
	case domain.PaymentRazorpay:
		pm.Details = domain.RazorpayDetails{}
	case domain.PaymentBankTransfer:
		pm.Details = domain.BankTransferDetails{AccountName: flat.AccountName}
	default:
		return nil, fmt.Errorf("payment method %s: unknown type %q", pm.ID, typ)
	}
	return &pm, nil
}
