package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rentify/internal/auth"
	"rentify/internal/cache"
	"rentify/internal/config"
	"rentify/internal/db"
	"rentify/internal/handler"
	"rentify/internal/logger"
	"rentify/internal/model"
	"rentify/internal/repository"
	"rentify/internal/router"
	"rentify/internal/service"
)

// @title Rentify API
// @version 1.0
// @description Car-rental booking API with agencies, quota-limited bookings and cookie-based JWT sessions.
// @BasePath /api/v1
// @schemes http https
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.Account{},
		&model.Agency{},
		&model.Booking{},
	); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	accountRepo := repository.NewAccountRepository(gormDB)
	agencyRepo := repository.NewAgencyRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)

	// Session tokens share their lifetime with the cookie
	cookieExpiry := time.Duration(cfg.CookieExpireDays) * 24 * time.Hour
	jwtService := auth.NewJWTService(cfg.JWTSecret, cookieExpiry)

	// Services
	authService := service.NewAuthService(accountRepo, jwtService)
	agencyService := service.NewAgencyService(agencyRepo, cacheClient)
	bookingService := service.NewBookingService(bookingRepo, agencyRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cookieExpiry, cfg.IsProduction())
	agencyHandler := handler.NewAgencyHandler(agencyService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, jwtService, accountRepo, authHandler, agencyHandler, bookingHandler)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	// Block until a shutdown signal, then drain in-flight requests and
	// release the store connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		log.Error("cache close", zap.Error(err))
	}
	if err := db.Close(gormDB); err != nil {
		log.Error("database close", zap.Error(err))
	}
}
