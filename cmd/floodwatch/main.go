package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/dashboard"
	"floodwatch/internal/fetch"
	"floodwatch/internal/floodapi"
	"floodwatch/internal/metrics"
	"floodwatch/internal/store"
	"floodwatch/internal/watch"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if c.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	st := initializeStore(c)
	if st != nil {
		defer st.Close()
	}

	startMetricsServer(ctx, c)

	client := floodapi.New(c)
	loader := fetch.New(c, client, m, nil)
	controller := watch.NewController(c, loader, st, m, nil)

	srv := dashboard.NewServer(controller, c, m)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("dashboard server start failed")
	}

	// The initial load blocks until every data region has settled.
	if err := controller.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("controller start failed")
	}

	waitForShutdown(ctx, cancel, controller, srv)
}

// initializeStore opens the local reading store if DATA_PATH is configured.
func initializeStore(c cfg.Settings) *store.Store {
	if c.DataPath == "" {
		return nil
	}
	st, err := store.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("store initialization failed, continuing without persistence")
		return nil
	}
	return st
}

// startMetricsServer starts the Prometheus metrics HTTP server.
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	go func() {
		mux := http.NewServeMux()

		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown waits for shutdown signals and handles graceful shutdown.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, controller *watch.Controller, srv *dashboard.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")
	cancel()

	done := make(chan struct{})
	go func() {
		controller.Stop()
		srv.Stop()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("all components stopped")
	case <-time.After(10 * time.Second):
		log.Warn().Msg("shutdown timeout, forcing exit")
	}
}
