package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Matheusaraujo007/Lista-da-vez/internal/config"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/httpapi"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/insight"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/store/postgres"
	"github.com/Matheusaraujo007/Lista-da-vez/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()

	shutdownTracing := telemetry.Setup("vez-api")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	var cache insight.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = insight.NewRedisCache(client)
		defer func() { _ = client.Close() }()
	}

	var provider insight.Provider
	if cfg.InsightURL != "" {
		provider = insight.NewHTTPProvider(cfg.InsightURL, cfg.InsightToken)
	}
	insights := insight.NewGenerator(insight.Options{
		Provider: provider,
		Cache:    cache,
		Cooldown: cfg.InsightCooldown,
	})

	st := postgres.NewStore(pool)
	handler := httpapi.NewHandler(st, insights, httpapi.Options{
		AccessKey: cfg.AccessKey,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute: cfg.RateLimitPerMinute,
		IPBurst:     cfg.RateLimitBurst,
	})

	routes := otelhttp.NewHandler(limiter.Middleware(httpapi.LoggingMiddleware(handler.Routes())), "vez-api")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("vez-api listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
