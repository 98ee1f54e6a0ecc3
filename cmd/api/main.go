package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotelverse/internal/adapters/http_server"
	"hotelverse/internal/adapters/observability"
	redisad "hotelverse/internal/adapters/redis"
	"hotelverse/internal/app"
	"hotelverse/internal/domain"
	"hotelverse/internal/shared"
	"hotelverse/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// store: a failed connection degrades to Unconfigured instead of exiting
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, closeStore, err := storage.Open(openCtx, cfg)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("driver", cfg.StoreDriver).Msg("database connection failed; serving without a database")
		store, closeStore = storage.Unconfigured{}, func(context.Context) error { return nil }
	} else {
		log.Info().Str("driver", store.Driver()).Msg("store ready")
	}

	// cache is optional
	var cache domain.Cache
	var rc *redisad.Cache
	if cfg.RedisAddr != "" {
		rc = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		cache = rc
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
	}

	// deps
	catalog := app.NewCatalogService(store, cache, cfg.CacheTTL)
	concierge := app.NewConciergeService(store, nil)
	quotes := app.NewQuoteService(store)

	// http
	srv := server.New(server.Options{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	urlSet, nameSet := cfg.EnvPresence()
	srv.MountHandlers(&server.Handlers{
		Catalog:         catalog,
		Concierge:       concierge,
		Quotes:          quotes,
		DatabaseURLSet:  urlSet,
		DatabaseNameSet: nameSet,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := closeStore(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close failed")
	}
	if rc != nil {
		if err := rc.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
}
