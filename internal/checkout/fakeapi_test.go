package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/apiclient"
	"storefront/internal/domain"
)

type recordedRequest struct {
	Pattern string
	Body    []byte
}

// fakeAPI is an in-memory storefront API. Every request is recorded.
type fakeAPI struct {
	mu        sync.Mutex
	nextID    int
	cart      []domain.CartItem
	wishlist  []domain.WishlistItem
	addresses []domain.Address
	methods   []domain.PaymentMethod
	settings  domain.PaymentSettings
	coupons   map[string]decimal.Decimal
	orders    map[string]domain.Order
	failures  map[string]int
	applied   []domain.CouponRequest
	verifyOK  bool
	requests  []recordedRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		coupons:  map[string]decimal.Decimal{},
		orders:   map[string]domain.Order{},
		failures: map[string]int{},
		verifyOK: true,
		settings: domain.PaymentSettings{
			CODEnabled:           true,
			CODMinOrderValue:     decimal.NewFromInt(100),
			CODMaxOrderValue:     decimal.NewFromInt(5000),
			OnlinePaymentEnabled: true,
		},
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// fail makes the route registered under pattern answer with status.
func (f *fakeAPI) fail(pattern string, status int) {
	f.mu.Lock()
	f.failures[pattern] = status
	f.mu.Unlock()
}

func (f *fakeAPI) addCartItem(productID, name, price string, qty int) domain.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := domain.CartItem{ID: f.id("cart"), ProductID: productID, Name: name, Quantity: qty, Price: decimal.RequireFromString(price)}
	f.cart = append(f.cart, it)
	return it
}

func (f *fakeAPI) count(pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Pattern == pattern {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) lastBody(pattern string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Pattern == pattern {
			var out map[string]any
			_ = json.Unmarshal(f.requests[i].Body, &out)
			return out
		}
	}
	return nil
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, h func(w http.ResponseWriter, r *http.Request, body []byte)) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			f.requests = append(f.requests, recordedRequest{Pattern: pattern, Body: body})
			status, failing := f.failures[pattern]
			f.mu.Unlock()
			if failing {
				writeJSON(w, status, map[string]string{"error": "Something went wrong"})
				return
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			h(w, r, body)
		})
	}

	route("GET /api/cart", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, map[string]any{"items": f.cart})
	})
	route("PATCH /api/cart/{id}", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in struct {
			Quantity int `json:"quantity"`
		}
		_ = json.Unmarshal(body, &in)
		for i := range f.cart {
			if f.cart[i].ID == r.PathValue("id") {
				f.cart[i].Quantity = in.Quantity
				writeJSON(w, http.StatusOK, map[string]any{"item": f.cart[i]})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Cart item not found"})
	})
	route("DELETE /api/cart/{id}", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		for i := range f.cart {
			if f.cart[i].ID == r.PathValue("id") {
				f.cart = append(f.cart[:i], f.cart[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Cart item not found"})
	})
	route("POST /api/wishlist", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.WishlistItem
		_ = json.Unmarshal(body, &in)
		for _, it := range f.wishlist {
			if it.ProductID == in.ProductID && it.VariationID == in.VariationID {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "Item already in wishlist"})
				return
			}
		}
		in.ID = f.id("wish")
		f.wishlist = append(f.wishlist, in)
		writeJSON(w, http.StatusCreated, map[string]any{"item": in})
	})
	route("DELETE /api/wishlist/{id}", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		for i := range f.wishlist {
			if f.wishlist[i].ID == r.PathValue("id") {
				f.wishlist = append(f.wishlist[:i], f.wishlist[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	route("POST /api/coupons/validate", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.CouponRequest
		_ = json.Unmarshal(body, &in)
		discount, ok := f.coupons[strings.ToUpper(in.Code)]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid coupon code"})
			return
		}
		writeJSON(w, http.StatusOK, domain.CouponValidation{
			Coupon:         domain.Coupon{Code: strings.ToUpper(in.Code), DiscountType: domain.DiscountFixed, DiscountValue: discount, Active: true},
			DiscountAmount: discount,
		})
	})
	route("POST /api/coupons/apply", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.CouponRequest
		_ = json.Unmarshal(body, &in)
		f.applied = append(f.applied, in)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	route("GET /api/user/addresses", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, map[string]any{"addresses": f.addresses})
	})
	route("POST /api/user/addresses", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.Address
		_ = json.Unmarshal(body, &in)
		in.ID = f.id("addr")
		f.addresses = append(f.addresses, in)
		writeJSON(w, http.StatusCreated, map[string]any{"address": in})
	})
	route("GET /api/user/payment-methods", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, map[string]any{"paymentMethods": f.methods})
	})
	route("POST /api/user/payment-methods", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.NewPaymentMethod
		_ = json.Unmarshal(body, &in)
		m := domain.PaymentMethod{ID: f.id("pm"), IsDefault: in.IsDefault}
		switch in.Type {
		case domain.PaymentCard:
			m.Details = domain.CardDetails{HolderName: in.CardHolder, Last4: in.CardNumber[len(in.CardNumber)-4:], ExpiryMonth: in.ExpiryMonth, ExpiryYear: in.ExpiryYear}
		case domain.PaymentPayPal:
			m.Details = domain.PayPalDetails{Email: in.PayPalEmail}
		case domain.PaymentBankTransfer:
			m.Details = domain.BankTransferDetails{AccountName: in.AccountName}
		case domain.PaymentRazorpay:
			m.Details = domain.RazorpayDetails{}
		default:
			m.Details = domain.CODDetails{}
		}
		f.methods = append(f.methods, m)
		writeJSON(w, http.StatusCreated, map[string]any{"paymentMethod": m})
	})
	route("GET /api/payment-settings", func(w http.ResponseWriter, r *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, f.settings)
	})
	route("POST /api/orders", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.CreateOrderRequest
		if err := json.Unmarshal(body, &in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(f.cart) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Failed to create order", "details": "Cart is empty"})
			return
		}
		subtotal := domain.Subtotal(f.cart)
		discount := f.coupons[in.CouponCode]
		o := domain.Order{
			ID:              f.id("order"),
			ShippingAddress: in.ShippingAddress,
			BillingAddress:  in.BillingAddress,
			PaymentMethod:   in.PaymentMethod,
			PaymentMethodID: in.PaymentMethodID,
			CouponCode:      in.CouponCode,
			Subtotal:        subtotal,
			DiscountAmount:  discount,
			Shipping:        decimal.Zero,
			Total:           subtotal.Sub(discount),
			Currency:        "INR",
			Status:          domain.OrderPending,
			PaymentStatus:   domain.PaymentPending,
		}
		if in.PaymentMethod == domain.PaymentCOD {
			o.Status = domain.OrderConfirmed
		}
		f.orders[o.ID] = o
		f.cart = nil
		writeJSON(w, http.StatusCreated, map[string]any{"order": o})
	})
	route("POST /api/payments/razorpay/create-order", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.GatewayOrderRequest
		_ = json.Unmarshal(body, &in)
		o, ok := f.orders[in.OrderID]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Order not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": domain.GatewayOrder{
			Key:      "rzp_test_key",
			Amount:   domain.ToPaise(o.Total),
			Currency: o.Currency,
			OrderID:  "order_gw_" + o.ID,
			Receipt:  o.ID,
		}})
	})
	route("POST /api/payments/razorpay/verify", func(w http.ResponseWriter, r *http.Request, body []byte) {
		var in domain.PaymentVerification
		_ = json.Unmarshal(body, &in)
		if !f.verifyOK || in.RazorpaySignature == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Payment verification failed"})
			return
		}
		o := f.orders[in.OrderID]
		o.Status, o.PaymentStatus = domain.OrderConfirmed, domain.PaymentPaid
		f.orders[in.OrderID] = o
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]string{"orderId": in.OrderID}})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	paths     []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	r.successes = append(r.successes, msg)
	r.mu.Unlock()
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	r.errors = append(r.errors, msg)
	r.mu.Unlock()
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() (successes, errors, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...), append([]string(nil), r.errors...), append([]string(nil), r.paths...)
}

type fakeGateway struct {
	mu      sync.Mutex
	loadErr error
	result  GatewayResult
	openErr error
	loads   int
	opened  []domain.GatewayOrder

	// onOpen runs while the dialog is open, before the result is returned.
	onOpen func()
}

func (g *fakeGateway) Load(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads++
	return g.loadErr
}

func (g *fakeGateway) Open(_ context.Context, order domain.GatewayOrder) (GatewayResult, error) {
	g.mu.Lock()
	g.opened = append(g.opened, order)
	onOpen := g.onOpen
	g.mu.Unlock()
	if onOpen != nil {
		onOpen()
	}
	return g.result, g.openErr
}

// harness wires every checkout component to a fake API.
type harness struct {
	api       *fakeAPI
	notes     *recorder
	gateway   *fakeGateway
	cart      *CartStore
	coupons   *CouponResolver
	addresses *AddressManager
	payments  *PaymentMethodSelector
	bridge    *RazorpayBridge
	submitter *OrderSubmitter
	close     func()
}

func newHarness() *harness {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Token: "test-token"}, nil)

	h := &harness{api: api, notes: &recorder{}, gateway: &fakeGateway{}, close: srv.Close}
	h.cart = NewCartStore(client, h.notes, nil)
	h.coupons = NewCouponResolver(client, h.notes, nil)
	h.addresses = NewAddressManager(client, h.notes, nil)
	h.payments = NewPaymentMethodSelector(client, h.notes, nil)
	h.bridge = NewRazorpayBridge(client, h.gateway, h.notes, h.notes, nil)
	h.submitter = NewOrderSubmitter(Components{
		API:       client,
		Cart:      h.cart,
		Coupons:   h.coupons,
		Addresses: h.addresses,
		Payments:  h.payments,
		Bridge:    h.bridge,
		Notify:    h.notes,
		Navigate:  h.notes,
	}, SubmitOptions{}, nil)
	return h
}

func startHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness()
	t.Cleanup(h.close)
	return h
}

func validForm() AddressForm {
	return AddressForm{
		FirstName:   "Asha",
		LastName:    "Verma",
		Address:     "12 MG Road",
		City:        "Indore",
		State:       "Madhya Pradesh",
		Zipcode:     "452001",
		CountryCode: "+91",
		Mobile:      "9876543210",
	}
}
