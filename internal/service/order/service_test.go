package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/tax"
)

type stubOrders struct {
	created *domain.Order
	getErr  error
}

func (s *stubOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	o.ID = "o1"
	s.created = &o
	out := o
	return &out, nil
}

func (s *stubOrders) Get(_ context.Context, _, _ string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := *s.created
	return &out, nil
}

func (s *stubOrders) List(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

type stubCart struct {
	items []domain.CartItem
}

func (s *stubCart) List(_ context.Context, _ string) ([]domain.CartItem, error) {
	return s.items, nil
}

type stubCoupons struct {
	coupons map[string]domain.Coupon
}

func (s *stubCoupons) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := s.coupons[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

type stubSettings struct {
	settings domain.PaymentSettings
}

func (s *stubSettings) Get(_ context.Context) (*domain.PaymentSettings, error) {
	out := s.settings
	return &out, nil
}

type stubMethods struct {
	method *domain.PaymentMethod
}

func (s *stubMethods) Get(_ context.Context, _, _ string) (*domain.PaymentMethod, error) {
	if s.method == nil {
		return nil, domain.ErrNotFound
	}
	return s.method, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func address(state string) domain.Address {
	return domain.Address{
		FullName:     "Asha Rao",
		AddressLine1: "12 MG Road",
		City:         "Indore",
		State:        state,
		PostalCode:   "452001",
		Country:      "India",
		Phone:        "+91 9876543210",
	}
}

func fixture() (*Service, *stubOrders) {
	sale := d("400")
	orders := &stubOrders{}
	svc := New(Deps{
		Orders: orders,
		Cart: &stubCart{items: []domain.CartItem{
			{ID: "c1", ProductID: "p1", Name: "Kurta", Quantity: 2, Price: d("500"), SalePrice: &sale},
			{ID: "c2", ProductID: "p2", Name: "Scarf", Quantity: 1, Price: d("380")},
		}},
		Coupons: &stubCoupons{coupons: map[string]domain.Coupon{
			"SAVE10": {Code: "SAVE10", DiscountType: domain.DiscountFixed, DiscountValue: d("100"), Active: true},
		}},
		Settings: &stubSettings{settings: domain.PaymentSettings{
			CODEnabled:           true,
			CODMinOrderValue:     d("0"),
			CODMaxOrderValue:     d("5000"),
			OnlinePaymentEnabled: true,
		}},
		Methods: &stubMethods{},
	}, Options{ShippingFee: d("0"), Tax: tax.DefaultConfig()}, nil)
	return svc, orders
}

func TestCreateRecomputesTotals(t *testing.T) {
	svc, orders := fixture()
	got, err := svc.Create(context.Background(), "user", domain.CreateOrderRequest{
		ShippingAddress: address("Madhya Pradesh"),
		PaymentMethod:   domain.PaymentRazorpay,
		CouponCode:      "save10",
		DiscountAmount:  d("999"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subtotal.StringFixed(2) != "1180.00" || got.DiscountAmount.StringFixed(2) != "100.00" || got.Total.StringFixed(2) != "1080.00" {
		t.Fatalf("unexpected totals: %s %s %s", got.Subtotal, got.DiscountAmount, got.Total)
	}
	if got.Status != domain.OrderPending || got.PaymentStatus != domain.PaymentPending || got.CouponCode != "SAVE10" {
		t.Fatalf("unexpected state: %+v", got)
	}
	if orders.created.BillingAddress.City != "Indore" || orders.created.UserID != "user" {
		t.Fatalf("billing should default to shipping: %+v", orders.created.BillingAddress)
	}
	if len(got.Items) != 2 || got.Items[0].UnitPrice.StringFixed(2) != "400.00" || got.Items[0].Total.StringFixed(2) != "800.00" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.Tax == nil || !got.Tax.IntraState {
		t.Fatalf("expected intra-state tax breakdown, got %+v", got.Tax)
	}
}

func TestCreateCODIsConfirmed(t *testing.T) {
	svc, _ := fixture()
	got, err := svc.Create(context.Background(), "user", domain.CreateOrderRequest{
		ShippingAddress: address("Karnataka"),
		PaymentMethod:   domain.PaymentCOD,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.OrderConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
	if _, ok := got.Tax.Line(tax.LabelIGST); !ok {
		t.Fatalf("expected IGST line")
	}
}

func TestCreateRejectsDisabledMethod(t *testing.T) {
	svc, orders := fixture()
	svc.settings = &stubSettings{settings: domain.PaymentSettings{CODEnabled: true, CODMinOrderValue: d("0"), CODMaxOrderValue: d("1000")}}

	_, err := svc.Create(context.Background(), "user", domain.CreateOrderRequest{
		ShippingAddress: address("Goa"),
		PaymentMethod:   domain.PaymentCOD,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected COD above max to be rejected, got %v", err)
	}
	_, err = svc.Create(context.Background(), "user", domain.CreateOrderRequest{
		ShippingAddress: address("Goa"),
		PaymentMethod:   domain.PaymentRazorpay,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected razorpay to be rejected, got %v", err)
	}
	if orders.created != nil {
		t.Fatalf("no order should be written")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := fixture()

	_, err := svc.Create(context.Background(), "user", domain.CreateOrderRequest{PaymentMethod: domain.PaymentCOD})
	if err == nil || err.Error() != "shipping address is missing: full_name, address_line1, city, state, postal_code, phone" {
		t.Fatalf("unexpected error: %v", err)
	}

	partial := domain.Address{City: "Pune"}
	_, err = svc.Create(context.Background(), "user", domain.CreateOrderRequest{ShippingAddress: address("Goa"), BillingAddress: partial, PaymentMethod: domain.PaymentCOD})
	if !domain.IsValidation(err) {
		t.Fatalf("expected billing validation, got %v", err)
	}

	_, err = svc.Create(context.Background(), "user", domain.CreateOrderRequest{ShippingAddress: address("Goa")})
	if err == nil || err.Error() != "payment_method required" {
		t.Fatalf("expected payment method error, got %v", err)
	}

	_, err = svc.Create(context.Background(), "user", domain.CreateOrderRequest{ShippingAddress: address("Goa"), PaymentMethod: domain.PaymentCOD, CouponCode: "BOGUS"})
	if err == nil || err.Error() != "Invalid coupon code" {
		t.Fatalf("expected coupon error, got %v", err)
	}

	svc.cart = &stubCart{}
	_, err = svc.Create(context.Background(), "user", domain.CreateOrderRequest{ShippingAddress: address("Goa"), PaymentMethod: domain.PaymentCOD})
	if err == nil || err.Error() != "Cart is empty" {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestCreateUsesSavedMethod(t *testing.T) {
	svc, orders := fixture()
	svc.methods = &stubMethods{method: &domain.PaymentMethod{ID: "pm1", Details: domain.CardDetails{Last4: "1234"}}}

	_, err := svc.Create(context.Background(), "user", domain.CreateOrderRequest{ShippingAddress: address("Goa"), PaymentMethodID: "pm1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.created.PaymentMethod != domain.PaymentCard || orders.created.PaymentMethodID != "pm1" {
		t.Fatalf("unexpected method: %+v", orders.created)
	}

	_, err = svc.Create(context.Background(), "user", domain.CreateOrderRequest{ShippingAddress: address("Goa"), PaymentMethodID: "pm1", PaymentMethod: domain.PaymentCOD})
	if !domain.IsValidation(err) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestGetAttachesTax(t *testing.T) {
	svc, orders := fixture()
	orders.created = &domain.Order{ID: "o1", Total: d("1180"), ShippingAddress: address("madhya pradesh")}

	got, err := svc.Get(context.Background(), "user", "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cgst, ok := got.Tax.Line(tax.LabelCGST)
	if !ok || cgst.Amount.StringFixed(2) != "106.20" {
		t.Fatalf("unexpected tax: %+v", got.Tax)
	}

	orders.getErr = domain.ErrNotFound
	if _, err := svc.Get(context.Background(), "user", "o1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
