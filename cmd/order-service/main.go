package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/order-service/internal/api"
	"github.com/nikolayk812/order-service/internal/cache"
	"github.com/nikolayk812/order-service/internal/client"
	"github.com/nikolayk812/order-service/internal/config"
	"github.com/nikolayk812/order-service/internal/db"
	"github.com/nikolayk812/order-service/internal/port"
	"github.com/nikolayk812/order-service/internal/repository"
	"github.com/nikolayk812/order-service/internal/service"
	"github.com/nikolayk812/order-service/internal/telemetry"
	"github.com/nikolayk812/order-service/internal/template"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("order-service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	telemetry.InitLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry.SetupTracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("db.Migrate: %w", err)
	}

	orders, err := repository.NewOrder(pool)
	if err != nil {
		return fmt.Errorf("repository.NewOrder: %w", err)
	}

	transactor, err := repository.NewTransactor(pool)
	if err != nil {
		return fmt.Errorf("repository.NewTransactor: %w", err)
	}

	clientOpts := client.Options{
		Timeout:    cfg.HTTPClientTimeout,
		MaxRetries: cfg.HTTPClientMaxRetries,
	}

	products, closeCache, err := newProductClient(ctx, cfg, clientOpts)
	if err != nil {
		return fmt.Errorf("newProductClient: %w", err)
	}
	defer closeCache()

	users, err := client.NewUser(cfg.UserServiceURL, clientOpts)
	if err != nil {
		return fmt.Errorf("client.NewUser: %w", err)
	}

	notifier, err := client.NewNotifier(cfg.NotificationServiceURL, clientOpts)
	if err != nil {
		return fmt.Errorf("client.NewNotifier: %w", err)
	}

	var verifier port.TokenVerifier
	if cfg.AuthEnabled() {
		verifier, err = client.NewTokenVerifier(cfg.AuthServiceURL, clientOpts)
		if err != nil {
			return fmt.Errorf("client.NewTokenVerifier: %w", err)
		}
	} else {
		slog.Warn("AUTH_SERVICE_URL is empty, authentication is disabled")
	}

	enricher, err := service.NewEnricher(products, cfg.ProductLookupTimeout)
	if err != nil {
		return fmt.Errorf("service.NewEnricher: %w", err)
	}

	engine, err := template.NewEngine()
	if err != nil {
		return fmt.Errorf("template.NewEngine: %w", err)
	}

	orderService, err := service.NewOrderService(transactor, orders, enricher, users, notifier, engine,
		service.WithWorkers(cfg.EnrichWorkers))
	if err != nil {
		return fmt.Errorf("service.NewOrderService: %w", err)
	}

	router, _ := api.NewRouter(orderService, pool, verifier)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("order-service listening", "addr", cfg.HTTPAddr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	return nil
}

// newProductClient decorates the product client with the redis cache when configured.
func newProductClient(ctx context.Context, cfg config.Config, opts client.Options) (port.ProductClient, func(), error) {
	noop := func() {}

	products, err := client.NewProduct(cfg.ProductServiceURL, cfg.DefaultCurrency, opts)
	if err != nil {
		return nil, noop, fmt.Errorf("client.NewProduct: %w", err)
	}

	if !cfg.CacheEnabled() {
		return products, noop, nil
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.ServiceName)
	if err != nil {
		return nil, noop, fmt.Errorf("cache.NewRedisCache: %w", err)
	}

	cached, err := client.NewCachedProduct(products, redisCache, cfg.ProductCacheTTL)
	if err != nil {
		return nil, noop, errors.Join(fmt.Errorf("client.NewCachedProduct: %w", err), redisCache.Close())
	}

	closeCache := func() {
		if err := redisCache.Close(); err != nil {
			slog.Warn("redis close failed", "error", err)
		}
	}

	return cached, closeCache, nil
}
