package main // Entry point package

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/skanderbh/billiard-hall/internal/config"
	"github.com/skanderbh/billiard-hall/internal/database"
	"github.com/skanderbh/billiard-hall/internal/handler"
	"github.com/skanderbh/billiard-hall/internal/middleware"
	"github.com/skanderbh/billiard-hall/internal/queue"
	"github.com/skanderbh/billiard-hall/internal/repository"
	"github.com/skanderbh/billiard-hall/internal/router"
	"github.com/skanderbh/billiard-hall/internal/service"
)

func main() {
	// Load .env if present; in production the variables come from the
	// environment and the file simply does not exist.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the limiter and the stats cache become
	// pass-throughs and the API still works.
	rdb := config.NewRedisClient()

	// Repositories over the MySQL pool.
	tables := repository.NewTableRepo(db)
	clients := repository.NewClientRepo(db)
	sessions := repository.NewSessionRepo(db)
	rates := repository.NewRateRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	seedRates(rates, cfg)

	// The lifecycle service owns start/stop/toggle-paid semantics; the
	// handlers stay thin.
	lifecycle := service.NewLifecycle(tables, clients, sessions, rates)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	tableH := handler.NewTableHandler(tables)
	clientH := handler.NewClientHandler(clients)
	sessionH := handler.NewSessionHandler(lifecycle, sessions, tables, clients, rates)
	statsH := handler.NewStatsHandler(sessions, tables, rates)
	rateH := handler.NewRateHandler(rates)

	// The consumer mirrors every closed session to the audit log.  It
	// reconnects on its own, so a missing broker only costs the log.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("session consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e) // Health check
	auth := router.RegisterAuth(e, authH, cfg.JWTSecret)
	statsCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterHall(auth, tableH, clientH, sessionH, statsH, rateH, statsCache)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

// seedRates inserts the default billing policy on first boot so the hall
// can bill immediately.  An existing row always wins; the env defaults
// are never applied over it.
func seedRates(rates *repository.RateRepo, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rates.Current(ctx); err == nil {
		return
	} else if err != sql.ErrNoRows {
		log.Fatalf("rate config: %v", err)
	}
	if _, err := rates.Update(ctx, cfg.RateBase, cfg.RateReduced, cfg.RateThreshold, cfg.RateCurrency); err != nil {
		log.Fatalf("seed rate config: %v", err)
	}
	log.Printf("seeded rate config: base=%d reduced=%d threshold=%d %s",
		cfg.RateBase, cfg.RateReduced, cfg.RateThreshold, cfg.RateCurrency)
}
