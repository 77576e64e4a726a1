package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Token: "tok"}, nil)
}

func TestCartSendsBearerToken(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/cart", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"_id":"c1","product_id":"p1","quantity":2,"price":500,"sale_price":400}]}`))
	})

	items, err := client.Cart(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "400", items[0].EffectivePrice().String())
}

func TestErrorsCarryMessageAndDetails(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Failed to create order","details":"Cart is empty"}`))
	})

	_, err := client.CreateOrder(context.Background(), domain.CreateOrderRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Failed to create order: Cart is empty", err.Error())
}

func TestErrorWithObjectDetails(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad","details":{"field":"state"}}`))
	})
	_, err := client.Cart(context.Background())
	assert.EqualError(t, err, `bad: {"field":"state"}`)
}

func TestErrorFallbackMessage(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>upstream down</html>`))
	})
	_, err := client.Cart(context.Background())
	assert.EqualError(t, err, "Request failed with status 502")
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestInvalidResponseFormat(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "html": "<html></html>", "truncated": `{"order":`} {
		t.Run(name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.CreateOrder(context.Background(), domain.CreateOrderRequest{})
			assert.True(t, errors.Is(err, ErrInvalidResponse), "got %v", err)
		})
	}
}

func TestConflict(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Item already in wishlist"}`))
	})
	_, err := client.AddToWishlist(context.Background(), "p1", "")
	assert.True(t, IsConflict(err))
	assert.False(t, IsConflict(errors.New("other")))
}

func TestValidateCouponBody(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req domain.CouponRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SAVE10", req.Code)
		assert.True(t, req.Subtotal.Equal(decimal.NewFromInt(1000)))
		_, _ = w.Write([]byte(`{"coupon":{"code":"SAVE10","discount_type":"fixed","discount_value":100,"min_order_value":0,"used_count":0,"active":true},"discountAmount":100}`))
	})
	res, err := client.ValidateCoupon(context.Background(), "SAVE10", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "100", res.DiscountAmount.String())
}

func TestGatewayEnvelope(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payments/razorpay/create-order":
			_, _ = w.Write([]byte(`{"success":true,"data":{"key":"rzp","amount":90000,"currency":"INR","orderId":"order_1"}}`))
		case "/api/payments/razorpay/verify":
			_, _ = w.Write([]byte(`{"success":false,"error":"Signature mismatch"}`))
		}
	})

	gw, err := client.CreateGatewayOrder(context.Background(), domain.GatewayOrderRequest{OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, int64(90000), gw.Amount)
	assert.Equal(t, "order_1", gw.OrderID)

	_, err = client.VerifyPayment(context.Background(), domain.PaymentVerification{OrderID: "o1"})
	assert.EqualError(t, err, "Signature mismatch")
}

func TestRemoveCartItemNoContent(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cart/c%201", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, client.RemoveCartItem(context.Background(), "c 1"))
}
