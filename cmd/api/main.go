package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/server"
	"storefront-checkout/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment.Name, cfg.Log.Level)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// The commerce client validates credentials eagerly: missing store
	// config is fatal at startup, never at checkout time.
	commerceClient, err := client.NewWooClient(&cfg.WooCommerce)
	if err != nil {
		log.Fatal("init commerce client", zap.Error(err))
	}

	db, err := client.InitSqliteClient(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("init local store", zap.Error(err))
	}

	addressRepo := repository.NewAddressRepository(db, log)
	addressService := service.NewAddressService(addressRepo)
	directory := service.NewPaymentDirectory(commerceClient)
	orderService := service.NewOrderService(commerceClient)
	wizard := service.NewCheckoutWizard(addressService, directory, orderService, log)

	srv := server.NewServer(directory, orderService, addressService, wizard)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
