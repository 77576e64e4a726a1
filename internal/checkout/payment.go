package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

// CardForm is a new card as typed. Expiry is "MM/YY". Last4 is only set when
// the form shows a saved card.
type CardForm struct {
	Number string
	Holder string
	Expiry string
	Last4  string
}

// ParseExpiry turns "MM/YY" into ("MM", "20YY").
func ParseExpiry(s string) (month, year string, err error) {
	mm, yy, ok := strings.Cut(strings.TrimSpace(s), "/")
	mm, yy = strings.TrimSpace(mm), strings.TrimSpace(yy)
	if !ok || len(mm) != 2 || len(yy) != 2 {
		return "", "", invalid("Expiry must be in MM/YY format")
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return "", "", invalid("Expiry month must be between 01 and 12")
	}
	if _, err := strconv.Atoi(yy); err != nil {
		return "", "", invalid("Expiry must be in MM/YY format")
	}
	return mm, "20" + yy, nil
}

// FormatExpiry renders a saved card's expiry as "MM/YY".
func FormatExpiry(month, year string) string {
	if len(year) > 2 {
		year = year[len(year)-2:]
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return month + "/" + year
}

// IsCodAvailable reports whether cash on delivery can pay total. Both bounds
// are inclusive; without settings it is unavailable.
func IsCodAvailable(settings *domain.PaymentSettings, total decimal.Decimal) bool {
	return settings != nil && settings.CODAvailable(total)
}

// PaymentMethodSelector tracks saved methods, store settings and the choice.
type PaymentMethodSelector struct {
	api    API
	notify Notifier
	logger *zap.Logger

	mu           sync.Mutex
	methods      []domain.PaymentMethod
	settings     *domain.PaymentSettings
	selectedType domain.PaymentMethodType
	selectedID   string
	card         CardForm
	paypalEmail  string
	accountName  string
}

func NewPaymentMethodSelector(api API, notify Notifier, logger *zap.Logger) *PaymentMethodSelector {
	return &PaymentMethodSelector{api: api, notify: notify, logger: logging.OrNop(logger)}
}

// Fetch loads saved methods and selects the default one.
func (p *PaymentMethodSelector) Fetch(ctx context.Context) error {
	list, err := p.api.PaymentMethods(ctx)
	if err != nil {
		p.notify.Error("Failed to load payment methods: " + err.Error())
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.methods = list
	for _, m := range list {
		if m.IsDefault {
			p.selectSaved(m)
			break
		}
	}
	return nil
}

// FetchSettings loads the store's payment settings.
func (p *PaymentMethodSelector) FetchSettings(ctx context.Context) error {
	s, err := p.api.PaymentSettings(ctx)
	if err != nil {
		p.logger.Warn("payment settings unavailable", zap.Error(err))
		p.notify.Error("Failed to load payment options: " + err.Error())
		return err
	}
	p.mu.Lock()
	p.settings = s
	p.mu.Unlock()
	return nil
}

func (p *PaymentMethodSelector) Settings() *domain.PaymentSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

func (p *PaymentMethodSelector) Methods() []domain.PaymentMethod {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.PaymentMethod, len(p.methods))
	copy(out, p.methods)
	return out
}

// Options lists the method types usable for an order of total.
func (p *PaymentMethodSelector) Options(total decimal.Decimal) []domain.PaymentMethodType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.options(total)
}

func (p *PaymentMethodSelector) options(total decimal.Decimal) []domain.PaymentMethodType {
	out := []domain.PaymentMethodType{domain.PaymentCard}
	if p.settings == nil {
		return out
	}
	for _, t := range []domain.PaymentMethodType{domain.PaymentRazorpay, domain.PaymentPayPal, domain.PaymentBankTransfer, domain.PaymentCOD} {
		if p.settings.Allows(t, total) {
			out = append(out, t)
		}
	}
	return out
}

// Choose selects a new method of type t for an order of total.
func (p *PaymentMethodSelector) Choose(t domain.PaymentMethodType, total decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, o := range p.options(total) {
		if o == t {
			p.selectedType = t
			p.selectedID = ""
			p.card = CardForm{}
			return nil
		}
	}
	if t == domain.PaymentCOD {
		return invalid("Cash on delivery is not available for this order")
	}
	return invalid(fmt.Sprintf("Payment method %s is not available", t))
}

// SelectSaved selects a saved method by id.
func (p *PaymentMethodSelector) SelectSaved(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.methods {
		if m.ID == id {
			p.selectSaved(m)
			return nil
		}
	}
	return invalid("Unknown payment method")
}

func (p *PaymentMethodSelector) selectSaved(m domain.PaymentMethod) {
	p.selectedType = m.Type()
	p.selectedID = m.ID
	p.card = CardForm{}
	switch d := m.Details.(type) {
	case domain.CardDetails:
		p.card = CardForm{Holder: d.HolderName, Expiry: FormatExpiry(d.ExpiryMonth, d.ExpiryYear), Last4: d.Last4}
	case domain.PayPalDetails:
		p.paypalEmail = d.Email
	case domain.BankTransferDetails:
		p.accountName = d.AccountName
	}
}

// Selected returns the chosen type and, for a saved method, its id.
func (p *PaymentMethodSelector) Selected() (domain.PaymentMethodType, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedType, p.selectedID
}

func (p *PaymentMethodSelector) Card() CardForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.card
}

func (p *PaymentMethodSelector) SetCard(c CardForm) {
	p.mu.Lock()
	p.card = c
	p.mu.Unlock()
}

func (p *PaymentMethodSelector) SetPayPalEmail(email string) {
	p.mu.Lock()
	p.paypalEmail = email
	p.mu.Unlock()
}

func (p *PaymentMethodSelector) SetAccountName(name string) {
	p.mu.Lock()
	p.accountName = name
	p.mu.Unlock()
}

// NeedsCardDetails reports whether a new, unsaved card is chosen.
func (p *PaymentMethodSelector) NeedsCardDetails() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectedType == domain.PaymentCard && p.selectedID == ""
}

// ValidateCard checks the card form without calling the API.
func (p *PaymentMethodSelector) ValidateCard() error {
	_, err := p.newCard(p.Card())
	return err
}

func (p *PaymentMethodSelector) newCard(c CardForm) (domain.NewPaymentMethod, error) {
	number := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, c.Number)
	if number == "" || strings.TrimSpace(c.Holder) == "" || strings.TrimSpace(c.Expiry) == "" {
		return domain.NewPaymentMethod{}, invalid("Please fill in all card details")
	}
	month, year, err := ParseExpiry(c.Expiry)
	if err != nil {
		return domain.NewPaymentMethod{}, err
	}
	return domain.NewPaymentMethod{
		Type:        domain.PaymentCard,
		CardNumber:  number,
		CardHolder:  strings.TrimSpace(c.Holder),
		ExpiryMonth: month,
		ExpiryYear:  year,
	}, nil
}

// SaveNew stores the chosen new method and selects it. It becomes the
// default only when no method was saved before.
func (p *PaymentMethodSelector) SaveNew(ctx context.Context) (*domain.PaymentMethod, error) {
	p.mu.Lock()
	t := p.selectedType
	card := p.card
	email, account := p.paypalEmail, p.accountName
	first := len(p.methods) == 0
	p.mu.Unlock()

	var in domain.NewPaymentMethod
	switch t {
	case domain.PaymentCard:
		var err error
		if in, err = p.newCard(card); err != nil {
			p.notify.Error(err.Error())
			return nil, err
		}
	case domain.PaymentPayPal:
		in = domain.NewPaymentMethod{Type: t, PayPalEmail: strings.TrimSpace(email)}
	case domain.PaymentBankTransfer:
		in = domain.NewPaymentMethod{Type: t, AccountName: strings.TrimSpace(account)}
	case "":
		return nil, invalid("Please select a payment method")
	default:
		in = domain.NewPaymentMethod{Type: t}
	}
	in.IsDefault = first

	created, err := p.api.CreatePaymentMethod(ctx, in)
	if err != nil {
		p.notify.Error("Failed to save payment method: " + err.Error())
		return nil, err
	}
	p.mu.Lock()
	if created.IsDefault {
		for i := range p.methods {
			p.methods[i].IsDefault = false
		}
	}
	p.methods = append(p.methods, *created)
	p.selectSaved(*created)
	p.mu.Unlock()
	p.notify.Success("Payment method saved")
	return created, nil
}
