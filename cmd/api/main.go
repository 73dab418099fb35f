package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matheuslc/snipnest_api/internal/config"
	"github.com/matheuslc/snipnest_api/internal/db"
	"github.com/matheuslc/snipnest_api/internal/httpapi"
	"github.com/matheuslc/snipnest_api/internal/snippets"
	"github.com/matheuslc/snipnest_api/internal/telemetry"
)

const serviceName = "snipnest-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	shutdownTracer := telemetry.InitTracer(serviceName)
	defer shutdownTracer(context.Background())
	shutdownMetrics := telemetry.InitMetrics(serviceName)
	defer shutdownMetrics(context.Background())
	shutdownLogger := telemetry.InitLogger(serviceName)
	defer shutdownLogger(context.Background())
	db.InitTelemetry(serviceName)

	d, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer d.Close()

	if err := d.EnsureSchema(ctx); err != nil {
		log.Fatalf("db schema error: %v", err)
	}

	// A bad Redis URL or an unreachable Redis must not stop the process;
	// the cache adapter degrades to miss/no-op until it recovers.
	var redisClient *redis.Client
	if redisOpt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		log.Printf("redis url error, cache disabled: %v", err)
	} else {
		redisClient = redis.NewClient(redisOpt)
		defer redisClient.Close()
	}

	base := db.NewBase(d.Pool, cfg.DBTimeout)
	repo := snippets.NewRepository(base)

	svc := &snippets.Service{
		Store:    repo,
		Cache:    snippets.NewRedisCache(redisClient, cfg.CachePrefix),
		CacheTTL: cfg.CacheTTL,
	}

	telemetry.InitAppMetrics(serviceName, d.Pool, redisClient)

	app := &httpapi.App{
		ServiceName: serviceName,
		Health:      &httpapi.HealthHandler{DB: d.Pool, Redis: redisClient},
		Snippets:    &httpapi.SnippetsHandler{Service: svc},
		Search:      &httpapi.SearchHandler{Service: svc},
		Tags:        &httpapi.TagsHandler{Service: svc},
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("api listening on :%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-stopCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
