package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/razorpay"
	addressrepo "storefront/internal/repository/address"
	cartrepo "storefront/internal/repository/cart"
	couponrepo "storefront/internal/repository/coupon"
	orderrepo "storefront/internal/repository/order"
	methodrepo "storefront/internal/repository/paymentmethod"
	productrepo "storefront/internal/repository/product"
	settingsrepo "storefront/internal/repository/settings"
	wishlistrepo "storefront/internal/repository/wishlist"
	addresssvc "storefront/internal/service/address"
	cartsvc "storefront/internal/service/cart"
	couponsvc "storefront/internal/service/coupon"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"
	methodsvc "storefront/internal/service/paymentmethod"
	productsvc "storefront/internal/service/product"
	wishlistsvc "storefront/internal/service/wishlist"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool)
	addressRepo := addressrepo.NewPostgres(dbpool, logger)
	methodRepo := methodrepo.NewPostgres(dbpool)
	settingsRepo := settingsrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	gateway := razorpay.New(razorpay.Config{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
		BaseURL:   cfg.Razorpay.BaseURL,
		Timeout:   cfg.Razorpay.Timeout,
	}, logger)
	if cfg.Razorpay.KeyID == "" {
		logger.Warn("RAZORPAY_KEY_ID not set, online payments will be unavailable")
	}

	orderService := ordersvc.New(ordersvc.Deps{
		Orders:   orderRepo,
		Cart:     cartRepo,
		Coupons:  couponRepo,
		Settings: settingsRepo,
		Methods:  methodRepo,
	}, ordersvc.Options{
		ShippingFee: cfg.ShippingFee,
		Currency:    cfg.Currency,
		Tax:         cfg.Tax,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:       productsvc.New(productRepo),
		CartSvc:          cartsvc.New(cartRepo, productRepo),
		WishlistSvc:      wishlistsvc.New(wishlistRepo, productRepo),
		CouponSvc:        couponsvc.New(couponRepo, orderRepo, logger),
		AddressSvc:       addresssvc.New(addressRepo),
		PaymentMethodSvc: methodsvc.New(methodRepo),
		SettingsRepo:     settingsRepo,
		OrderSvc:         orderService,
		PaymentSvc:       paymentsvc.New(orderRepo, gateway, cfg.StoreName, logger),
	}, httpserver.Options{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
