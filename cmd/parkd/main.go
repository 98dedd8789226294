package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/openlots/parkd/internal/config"
	"github.com/openlots/parkd/internal/db"
	"github.com/openlots/parkd/internal/httpapi"
	"github.com/openlots/parkd/internal/parking/service"
	sqlitestore "github.com/openlots/parkd/internal/parking/store/sqlite"
)

func main() {
	cfg := config.FromEnv()
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "parkd").
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn); err != nil {
			logger.Fatal().Err(err).Msg("seed dev data")
		}
	}

	writer := db.NewWorker(conn)
	defer writer.Close()

	// Stores
	catalogStore := sqlitestore.NewCatalogStore(conn)
	vehicleStore := sqlitestore.NewVehicleStore(conn, writer)
	ledgerStore := sqlitestore.NewLedgerStore(conn)
	allocStore := sqlitestore.NewAllocationStore(conn, writer)

	// Services
	registry := service.NewVehicleRegistry(vehicleStore)
	catalog := service.NewSlotCatalog(catalogStore)
	allocator := service.NewAllocationService(catalogStore, ledgerStore, allocStore, logger)
	billing := service.NewBillingService(ledgerStore, allocStore, logger)
	ledger := service.NewActivityLedger(ledgerStore)

	poller := service.NewOccupancyPoller(catalogStore, cfg.OccupancyPollInterval, prometheus.DefaultRegisterer, logger)
	poller.Start(ctx)
	defer poller.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:    logger,
		Addr:      cfg.HTTPAddr,
		Allocator: allocator,
		Billing:   billing,
		Registry:  registry,
		Catalog:   catalog,
		Ledger:    ledger,
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
