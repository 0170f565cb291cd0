package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pricegrid/dynamic-pricing-service/internal/api"
	"github.com/pricegrid/dynamic-pricing-service/internal/cache"
	"github.com/pricegrid/dynamic-pricing-service/internal/repository"
	"github.com/pricegrid/dynamic-pricing-service/internal/service"
	"github.com/pricegrid/dynamic-pricing-service/pkg/config"
	"github.com/pricegrid/dynamic-pricing-service/pkg/db"
	"github.com/pricegrid/dynamic-pricing-service/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("pricing-service", "info", "json")
		bootLog.Fatal().Err(err).Msg("config load failed")
	}

	log := logger.New("pricing-service", cfg.App.LogLevel, cfg.App.LogFormat)

	conn, err := db.NewPostgresConnection(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer conn.Close()

	var store cache.Store = cache.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		store = cache.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis rule cache")
	}

	ruleRepo := repository.NewCachedRuleRepo(
		repository.NewRuleRepo(conn), store, cfg.Cache.RuleTTL, log)
	tierRepo := repository.NewTierRepo(conn)

	pricingSvc := service.NewPricingService(ruleRepo, tierRepo, log)
	adminSvc := service.NewRuleAdminService(ruleRepo, log)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      api.NewRouter(pricingSvc, adminSvc, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", cfg.App.Port).Msg("starting pricing-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("listen failed")
	}

	<-idleConnsClosed
	log.Info().Msg("server stopped")
}
