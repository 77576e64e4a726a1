package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	cartsvc "storefront/internal/service/cart"
	wishlistsvc "storefront/internal/service/wishlist"
)

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type CartService interface {
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, userID, id string) error
}

type WishlistService interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID string, in wishlistsvc.AddInput) (*domain.WishlistItem, error)
	Remove(ctx context.Context, userID, id string) error
}

type CouponService interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponValidation, error)
	Apply(ctx context.Context, userID, code, orderID string) error
}

type AddressService interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
}

type PaymentMethodService interface {
	List(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	Create(ctx context.Context, userID string, in domain.NewPaymentMethod) (*domain.PaymentMethod, error)
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.PaymentSettings, error)
}

type OrderService interface {
	Create(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, userID, id string) (*domain.Order, error)
	List(ctx context.Context, userID string) ([]domain.Order, error)
}

type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, userID string, req domain.GatewayOrderRequest) (*domain.GatewayOrder, error)
	Verify(ctx context.Context, userID string, v domain.PaymentVerification) (*domain.Order, error)
}

// Deps groups the services the handlers call.
type Deps struct {
	ProductSvc       ProductService
	CartSvc          CartService
	WishlistSvc      WishlistService
	CouponSvc        CouponService
	AddressSvc       AddressService
	PaymentMethodSvc PaymentMethodService
	SettingsRepo     SettingsRepo
	OrderSvc         OrderService
	PaymentSvc       PaymentService
}

type Options struct {
	JWTSecret       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.WishlistSvc == nil:
		return errors.New("wishlist service required")
	case d.CouponSvc == nil:
		return errors.New("coupon service required")
	case d.AddressSvc == nil:
		return errors.New("address service required")
	case d.PaymentMethodSvc == nil:
		return errors.New("payment method service required")
	case d.SettingsRepo == nil:
		return errors.New("settings repository required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	case d.PaymentSvc == nil:
		return errors.New("payment service required")
	}
	return nil
}

type handler struct {
	deps   Deps
	logger *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret required")
	}
	logger = logging.OrNop(logger)

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestIDMiddleware(), logging.GinLogger(logger), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, logger))

	h := &handler{deps: deps, logger: logger}
	api := router.Group("/api", authMiddleware(opts.JWTSecret))

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	api.GET("/cart", h.listCart)
	api.POST("/cart", h.addToCart)
	api.PATCH("/cart/:id", h.updateCartItem)
	api.DELETE("/cart/:id", h.removeCartItem)

	api.GET("/wishlist", h.listWishlist)
	api.POST("/wishlist", h.addToWishlist)
	api.DELETE("/wishlist/:id", h.removeWishlistItem)

	api.POST("/coupons/validate", h.validateCoupon)
	api.POST("/coupons/apply", h.applyCoupon)

	api.GET("/user/addresses", h.listAddresses)
	api.POST("/user/addresses", h.createAddress)
	api.GET("/user/payment-methods", h.listPaymentMethods)
	api.POST("/user/payment-methods", h.createPaymentMethod)
	api.GET("/payment-settings", h.paymentSettings)

	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
	api.POST("/orders", h.createOrder)

	api.POST("/payments/razorpay/create-order", h.createGatewayOrder)
	api.POST("/payments/razorpay/verify", h.verifyPayment)

	return router, nil
}
