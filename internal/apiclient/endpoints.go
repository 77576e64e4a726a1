package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out struct {
		Products []domain.Product `json:"products"`
	}
	err := c.do(ctx, http.MethodGet, "/api/products", nil, &out)
	return out.Products, err
}

func (c *Client) Cart(ctx context.Context) ([]domain.CartItem, error) {
	var out struct {
		Items []domain.CartItem `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out)
	return out.Items, err
}

type cartItemRequest struct {
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

type itemResponse[T any] struct {
	Item *T `json:"item"`
}

func (c *Client) AddToCart(ctx context.Context, productID, variationID string, quantity int) (*domain.CartItem, error) {
	var out itemResponse[domain.CartItem]
	err := c.do(ctx, http.MethodPost, "/api/cart", cartItemRequest{ProductID: productID, VariationID: variationID, Quantity: quantity}, &out)
	return out.Item, err
}

func (c *Client) UpdateCartItem(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	var out itemResponse[domain.CartItem]
	err := c.do(ctx, http.MethodPatch, "/api/cart/"+url.PathEscape(id), map[string]int{"quantity": quantity}, &out)
	return out.Item, err
}

func (c *Client) RemoveCartItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Wishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	var out struct {
		Items []domain.WishlistItem `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &out)
	return out.Items, err
}

func (c *Client) AddToWishlist(ctx context.Context, productID, variationID string) (*domain.WishlistItem, error) {
	var out itemResponse[domain.WishlistItem]
	err := c.do(ctx, http.MethodPost, "/api/wishlist", cartItemRequest{ProductID: productID, VariationID: variationID}, &out)
	return out.Item, err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponValidation, error) {
	var out domain.CouponValidation
	if err := c.do(ctx, http.MethodPost, "/api/coupons/validate", domain.CouponRequest{Code: code, Subtotal: subtotal}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApplyCoupon(ctx context.Context, code, orderID string) error {
	return c.do(ctx, http.MethodPost, "/api/coupons/apply", domain.CouponRequest{Code: code, OrderID: orderID}, nil)
}

func (c *Client) Addresses(ctx context.Context) ([]domain.Address, error) {
	var out struct {
		Addresses []domain.Address `json:"addresses"`
	}
	err := c.do(ctx, http.MethodGet, "/api/user/addresses", nil, &out)
	return out.Addresses, err
}

func (c *Client) CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out struct {
		Address *domain.Address `json:"address"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/addresses", a, &out); err != nil {
		return nil, err
	}
	if out.Address == nil {
		return nil, ErrInvalidResponse
	}
	return out.Address, nil
}

func (c *Client) PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	var out struct {
		PaymentMethods []domain.PaymentMethod `json:"paymentMethods"`
	}
	err := c.do(ctx, http.MethodGet, "/api/user/payment-methods", nil, &out)
	return out.PaymentMethods, err
}

func (c *Client) CreatePaymentMethod(ctx context.Context, in domain.NewPaymentMethod) (*domain.PaymentMethod, error) {
	var out struct {
		PaymentMethod *domain.PaymentMethod `json:"paymentMethod"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/payment-methods", in, &out); err != nil {
		return nil, err
	}
	if out.PaymentMethod == nil {
		return nil, ErrInvalidResponse
	}
	return out.PaymentMethod, nil
}

func (c *Client) PaymentSettings(ctx context.Context) (*domain.PaymentSettings, error) {
	var out domain.PaymentSettings
	if err := c.do(ctx, http.MethodGet, "/api/payment-settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	var out struct {
		Order *domain.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	if out.Order == nil || out.Order.ID == "" {
		return nil, ErrInvalidResponse
	}
	return out.Order, nil
}

func (c *Client) Order(ctx context.Context, id string) (*domain.Order, error) {
	var out struct {
		Order *domain.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, ErrInvalidResponse
	}
	return out.Order, nil
}

type gatewayEnvelope[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    *T     `json:"data"`
}

func (c *Client) CreateGatewayOrder(ctx context.Context, req domain.GatewayOrderRequest) (*domain.GatewayOrder, error) {
	var out gatewayEnvelope[domain.GatewayOrder]
	if err := c.do(ctx, http.MethodPost, "/api/payments/razorpay/create-order", req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, unsuccessful(out.Error, "Failed to create payment order")
	}
	return out.Data, nil
}

// VerifyPayment returns the verified order id.
func (c *Client) VerifyPayment(ctx context.Context, v domain.PaymentVerification) (string, error) {
	var out gatewayEnvelope[struct {
		OrderID string `json:"orderId"`
	}]
	if err := c.do(ctx, http.MethodPost, "/api/payments/razorpay/verify", v, &out); err != nil {
		return "", err
	}
	if !out.Success || out.Data == nil {
		return "", unsuccessful(out.Error, "Payment verification failed")
	}
	return out.Data.OrderID, nil
}

func unsuccessful(msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return &APIError{Status: http.StatusOK, Message: msg}
}
