package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"caribbean_kitchen/internal/adapters/gsheets"
	server "caribbean_kitchen/internal/adapters/http_server"
	"caribbean_kitchen/internal/adapters/observability"
	stripegw "caribbean_kitchen/internal/adapters/stripe"
	"caribbean_kitchen/internal/app"
	"caribbean_kitchen/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// external collaborators
	store, err := gsheets.New(ctx, cfg.SpreadsheetID, cfg.CredentialsJSON, cfg.SheetsRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Sheets store")
	}
	gateway, err := stripegw.New(cfg.StripeKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Stripe gateway")
	}

	// services
	catalog := app.NewTypeCatalog(store, cfg.TypesRange)
	payments := app.NewPaymentService(gateway, cfg.Currency, cfg.SuccessURL, cfg.CancelURL)
	reservations := app.NewReservationService(store, gateway, cfg.ReservationsRange)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:      catalog,
		Payments:     payments,
		Reservations: reservations,
	})

	g, _ := errgroup.WithContext(ctx)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.MetricsHandler(reg))
		metricsSrv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
