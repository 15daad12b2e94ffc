package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	httpadapter "protetor/internal/adapters/http"
	"protetor/internal/adapters/hibp"
	"protetor/internal/adapters/memstore"
	pg "protetor/internal/adapters/postgres"
	"protetor/internal/adapters/safebrowsing"
	"protetor/internal/config"
	"protetor/internal/logging"
	"protetor/internal/ports"
	breachsvc "protetor/internal/services/breach"
	rangesvc "protetor/internal/services/pwnedrange"
	scansvc "protetor/internal/services/urlscan"
	"protetor/internal/workers/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("config")
	}
	logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store selection: Postgres when DATABASE_URL is set (shared across
	// instances), in-memory otherwise.
	var (
		cache   ports.Cache
		limiter ports.RateLimiter
		purgers []ports.ExpiryPurger
		backend = "memory"
	)
	if cfg.DatabaseURL != "" {
		if err := pg.Migrate(ctx, cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("migrations")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("db connect")
		}
		defer db.Close()
		cache, limiter = db, db
		purgers = append(purgers, db)
		backend = "postgres"
	} else {
		mc := memstore.NewCache()
		ml := memstore.NewRateLimiter()
		cache, limiter = mc, ml
		purgers = append(purgers, mc, ml)
	}

	var breachAPI ports.BreachAPI
	if cfg.HIBPAPIKey != "" {
		breachAPI = hibp.New(cfg.HIBPBreachURL, cfg.HIBPRangeURL, cfg.HIBPAPIKey)
	}
	rangeAPI := hibp.New(cfg.HIBPBreachURL, cfg.HIBPRangeURL, "")
	var threatAPI ports.ThreatMatchAPI
	if cfg.SafeBrowsingAPIKey != "" {
		threatAPI = safebrowsing.New(cfg.SafeBrowsingURL, cfg.SafeBrowsingAPIKey)
	}

	breaches := breachsvc.New(breachAPI, cache, limiter, breachsvc.Config{
		RateLimit:  cfg.BreachRateLimit,
		RateWindow: cfg.BreachRateWindow,
		CacheTTL:   cfg.BreachCacheTTL,
	})
	scanner := scansvc.New(threatAPI, cache, limiter, scansvc.Config{
		RateLimit:  cfg.ScanRateLimit,
		RateWindow: cfg.ScanRateWindow,
		CacheTTL:   cfg.ScanCacheTTL,
	})
	ranges := rangesvc.New(rangeAPI, limiter, rangesvc.Config{
		RateLimit:  cfg.PwnedRateLimit,
		RateWindow: cfg.PwnedRateWindow,
	})

	srv := httpadapter.New(breaches, scanner, ranges, httpadapter.Options{
		AllowedOrigins:         cfg.AllowedOrigins,
		DefaultOrigin:          cfg.DefaultOrigin,
		HIBPConfigured:         cfg.HIBPAPIKey != "",
		SafeBrowsingConfigured: cfg.SafeBrowsingAPIKey != "",
		StoreBackend:           backend,
	})
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	go sweeper.Run(ctx, cfg.SweepInterval, purgers...)

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Info().Str("addr", cfg.ListenAddr).Str("store", backend).Msg("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server error")
	}
}
