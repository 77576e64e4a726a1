package paymentmethod

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
)

type Service struct {
	repo methodRepo
	now  func() time.Time
}

type methodRepo interface {
	List(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	Create(ctx context.Context, userID string, pm domain.PaymentMethod) (*domain.PaymentMethod, error)
}

func New(repo methodRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	return s.repo.List(ctx, userID)
}

// Create validates in for its type and saves it. Only the last four digits of
// a card number are kept.
func (s *Service) Create(ctx context.Context, userID string, in domain.NewPaymentMethod) (*domain.PaymentMethod, error) {
	details, err := s.details(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userID, domain.PaymentMethod{Details: details, IsDefault: in.IsDefault})
}

func (s *Service) details(in domain.NewPaymentMethod) (domain.PaymentDetails, error) {
	switch in.Type {
	case domain.PaymentCard:
		return s.card(in)
	case domain.PaymentPayPal:
		email := strings.TrimSpace(in.PayPalEmail)
		if email == "" {
			return nil, domain.Invalid("paypal_email required")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.Invalid("paypal_email is not a valid email address")
		}
		return domain.PayPalDetails{Email: email}, nil
	case domain.PaymentBankTransfer:
		name := strings.TrimSpace(in.AccountName)
		if name == "" {
			return nil, domain.Invalid("account_name required")
		}
		return domain.BankTransferDetails{AccountName: name}, nil
	case domain.PaymentCOD:
		return domain.CODDetails{}, nil
	case domain.PaymentRazorpay:
		return domain.RazorpayDetails{}, nil
	case "":
		return nil, domain.Invalid("type required")
	default:
		return nil, domain.Invalid("unsupported payment method type %q", in.Type)
	}
}

func (s *Service) card(in domain.NewPaymentMethod) (domain.PaymentDetails, error) {
	number := DigitsOnly(in.CardNumber)
	if number == "" {
		return nil, domain.Invalid("card_number required")
	}
	if len(number) < 12 || len(number) > 19 || number != strings.Map(stripSeparators, in.CardNumber) {
		return nil, domain.Invalid("card_number must be 12 to 19 digits")
	}
	holder := strings.TrimSpace(in.CardHolder)
	if holder == "" {
		return nil, domain.Invalid("card_holder required")
	}
	month, err := strconv.Atoi(strings.TrimSpace(in.ExpiryMonth))
	if err != nil || month < 1 || month > 12 {
		return nil, domain.Invalid("expiry_month must be between 01 and 12")
	}
	yearStr := strings.TrimSpace(in.ExpiryYear)
	year, err := strconv.Atoi(yearStr)
	if err != nil || len(yearStr) != 4 {
		return nil, domain.Invalid("expiry_year must be four digits")
	}
	now := s.now()
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return nil, domain.Invalid("card has expired")
	}
	return domain.CardDetails{
		HolderName:  holder,
		Last4:       number[len(number)-4:],
		ExpiryMonth: fmt.Sprintf("%02d", month),
		ExpiryYear:  yearStr,
	}, nil
}

// DigitsOnly drops everything but ASCII digits from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripSeparators(r rune) rune {
	if r == ' ' || r == '-' {
		return -1
	}
	return r
}
