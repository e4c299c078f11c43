package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"buildkit-store/internal/checkout"
	"buildkit-store/internal/config"
	"buildkit-store/internal/db"
	"buildkit-store/internal/httpserver"
	categoryrepo "buildkit-store/internal/repository/category"
	customerrepo "buildkit-store/internal/repository/customer"
	orderrepo "buildkit-store/internal/repository/order"
	productrepo "buildkit-store/internal/repository/product"
	sessionrepo "buildkit-store/internal/repository/session"
	tokenrepo "buildkit-store/internal/repository/token"
	"buildkit-store/internal/service/account"
	"buildkit-store/internal/service/catalog"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	categoryRepo := categoryrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)

	catalogService := catalog.New(categoryRepo, productRepo)
	accountService := account.New(customerRepo, tokenRepo, account.NewLogSender(logger))
	checkoutService := checkout.New(orderRepo, productRepo, checkout.Options{
		FlatFeeCents:     cfg.FlatDeliveryFeeCents,
		ExpressFeeCents:  cfg.ExpressDeliveryFeeCents,
		AdminPhoneNumber: cfg.WhatsAppAdminNumber,
		Currency:         cfg.Currency,
	}, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:   catalogService,
		AccountSvc:   accountService,
		CheckoutSvc:  checkoutService,
		OrderRepo:    orderRepo,
		SessionRepo:  sessionRepo,
		AllowOrigins: cfg.CORSAllowOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
