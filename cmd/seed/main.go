package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	couponrepo "storefront/internal/repository/coupon"
	productrepo "storefront/internal/repository/product"
	settingsrepo "storefront/internal/repository/settings"
	"storefront/internal/seed"
)

func main() {
	userID := flag.String("user", "demo-user", "user id to issue a demo bearer token for")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	err = seed.Apply(ctx, seed.Writers{
		Products: productrepo.NewPostgres(pool, logger),
		Coupons:  couponrepo.NewPostgres(pool),
		Settings: settingsrepo.NewPostgres(pool),
	}, logger)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, skipping demo token")
		return
	}
	token, err := auth.IssueToken(cfg.JWTSecret, *userID, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("issue demo token", zap.Error(err))
	}
	fmt.Printf("API_TOKEN=%s\n", token)
}
