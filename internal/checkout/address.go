package checkout

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

// NewAddress selects the address form instead of a saved address.
const NewAddress = "new"

// AddressForm is the address as the shopper types it.
type AddressForm struct {
	FirstName   string
	LastName    string
	Address     string
	Address2    string
	City        string
	State       string
	Zipcode     string
	Country     string
	CountryCode string
	Mobile      string
}

// Missing lists the required form fields that are blank.
func (f AddressForm) Missing() []string {
	var out []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			out = append(out, name)
		}
	}
	check("first name", f.FirstName)
	check("last name", f.LastName)
	check("address", f.Address)
	check("city", f.City)
	check("state", f.State)
	check("zipcode", f.Zipcode)
	check("mobile", f.Mobile)
	return out
}

// ToAddress composes the wire address: name and phone become single strings.
func (f AddressForm) ToAddress() domain.Address {
	phone := strings.TrimSpace(f.Mobile)
	if code := strings.TrimSpace(f.CountryCode); code != "" {
		phone = code + " " + phone
	}
	country := strings.TrimSpace(f.Country)
	if country == "" {
		country = "India"
	}
	return domain.Address{
		FullName:     strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName)),
		AddressLine1: strings.TrimSpace(f.Address),
		AddressLine2: strings.TrimSpace(f.Address2),
		City:         strings.TrimSpace(f.City),
		State:        strings.TrimSpace(f.State),
		PostalCode:   strings.TrimSpace(f.Zipcode),
		Country:      country,
		Phone:        phone,
	}
}

// FormFromAddress fills a form from a saved address.
func FormFromAddress(a domain.Address) AddressForm {
	first, last := SplitName(a.FullName)
	code, mobile := SplitPhone(a.Phone)
	return AddressForm{
		FirstName:   first,
		LastName:    last,
		Address:     a.AddressLine1,
		Address2:    a.AddressLine2,
		City:        a.City,
		State:       a.State,
		Zipcode:     a.PostalCode,
		Country:     a.Country,
		CountryCode: code,
		Mobile:      mobile,
	}
}

// SplitName splits on the first space: "Mary Ann Lee" is ("Mary", "Ann Lee").
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

// SplitPhone splits "+91 98765 43210" into ("+91", "98765 43210"). A phone
// without a space is all number.
func SplitPhone(phone string) (code, number string) {
	phone = strings.TrimSpace(phone)
	code, number, found := strings.Cut(phone, " ")
	if !found {
		return "", phone
	}
	return code, strings.TrimSpace(number)
}

// AddressManager tracks saved addresses and which one ships the order.
type AddressManager struct {
	api    API
	notify Notifier
	logger *zap.Logger

	mu        sync.Mutex
	addresses []domain.Address
	selected  string
	form      AddressForm
}

func NewAddressManager(api API, notify Notifier, logger *zap.Logger) *AddressManager {
	return &AddressManager{api: api, notify: notify, logger: logging.OrNop(logger), selected: NewAddress}
}

// Fetch loads saved addresses and selects the default one, or the blank
// form when there is none.
func (m *AddressManager) Fetch(ctx context.Context) error {
	list, err := m.api.Addresses(ctx)
	if err != nil {
		m.notify.Error("Failed to load addresses: " + err.Error())
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses = list
	m.selected = NewAddress
	m.form = AddressForm{}
	for _, a := range list {
		if a.IsDefault {
			m.selected = a.ID
			m.form = FormFromAddress(a)
			break
		}
	}
	return nil
}

func (m *AddressManager) Addresses() []domain.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Address, len(m.addresses))
	copy(out, m.addresses)
	return out
}

func (m *AddressManager) Selected() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Select picks a saved address by id, or NewAddress for a blank form.
func (m *AddressManager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == NewAddress {
		m.selected = NewAddress
		m.form = AddressForm{}
		return nil
	}
	a, ok := m.find(id)
	if !ok {
		return invalid("Unknown address")
	}
	m.selected = id
	m.form = FormFromAddress(a)
	return nil
}

func (m *AddressManager) Form() AddressForm {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

func (m *AddressManager) SetForm(f AddressForm) {
	m.mu.Lock()
	m.form = f
	m.mu.Unlock()
}

// SaveNew stores the form as a new address and selects it. It becomes the
// default only when no address was saved before.
func (m *AddressManager) SaveNew(ctx context.Context) (*domain.Address, error) {
	m.mu.Lock()
	form := m.form
	first := len(m.addresses) == 0
	m.mu.Unlock()

	if missing := form.Missing(); len(missing) > 0 {
		msg := "Please fill in: " + strings.Join(missing, ", ")
		m.notify.Error(msg)
		return nil, invalid(msg)
	}
	a := form.ToAddress()
	a.IsDefault = first
	created, err := m.api.CreateAddress(ctx, a)
	if err != nil {
		m.notify.Error("Failed to save address: " + err.Error())
		return nil, err
	}

	m.mu.Lock()
	if created.IsDefault {
		for i := range m.addresses {
			m.addresses[i].IsDefault = false
		}
	}
	m.addresses = append(m.addresses, *created)
	m.selected = created.ID
	m.mu.Unlock()
	m.notify.Success("Address saved")
	return created, nil
}

// ShippingAddress is the selected saved address, or the composed form.
func (m *AddressManager) ShippingAddress() (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected != NewAddress {
		if a, ok := m.find(m.selected); ok {
			return a, nil
		}
	}
	if missing := m.form.Missing(); len(missing) > 0 {
		return domain.Address{}, invalid("Please select an address or fill in: " + strings.Join(missing, ", "))
	}
	return m.form.ToAddress(), nil
}

func (m *AddressManager) find(id string) (domain.Address, bool) {
	for _, a := range m.addresses {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Address{}, false
}
