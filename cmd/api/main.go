package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/multierr"

	"github.com/pulseras/storefront-backend/api/controllers"
	"github.com/pulseras/storefront-backend/api/routes"
	checkoutsvc "github.com/pulseras/storefront-backend/internal/checkout"
	"github.com/pulseras/storefront-backend/internal/localstore"
	"github.com/pulseras/storefront-backend/internal/orders"
	"github.com/pulseras/storefront-backend/pkg/config"
	"github.com/pulseras/storefront-backend/pkg/db"
	"github.com/pulseras/storefront-backend/pkg/env"
	"github.com/pulseras/storefront-backend/pkg/instance"
	"github.com/pulseras/storefront-backend/pkg/logger"
	"github.com/pulseras/storefront-backend/pkg/metrics"
	"github.com/pulseras/storefront-backend/pkg/migrate"
	"github.com/pulseras/storefront-backend/pkg/payments"
	"github.com/pulseras/storefront-backend/pkg/pubsub"
	"github.com/pulseras/storefront-backend/pkg/redis"
	"github.com/pulseras/storefront-backend/pkg/restclient"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	readiness := map[string]controllers.Pinger{}

	var dbClient *db.Client
	if cfg.NeedsDatabase() {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, dbClient.Close()) }()
		readiness["database"] = dbClient

		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		readiness["redis"] = redisClient
	}

	device, err := deviceBackend(cfg, dbClient, redisClient)
	if err != nil {
		return err
	}

	breakerLog := restclient.WithStateChange(func(name string, from, to gobreaker.State) {
		logg.Warn(logg.WithFields(ctx, map[string]any{"breaker": name, "from": from.String(), "to": to.String()}), "circuit breaker state changed")
	})
	paymentsClient, err := payments.NewClient(cfg.Payments, breakerLog)
	if err != nil {
		return err
	}
	ordersSvc, err := orders.NewService(cfg.Orders, dbClient)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	checkoutDeps := checkoutsvc.Deps{
		Payments:        paymentsClient,
		Orders:          ordersSvc,
		Metrics:         checkoutMetrics,
		Logger:          logg,
		ClearCartOnPaid: cfg.Checkout.ClearCartOnPaid,
	}
	if cfg.Checkout.LedgerEnabled {
		if redisClient == nil {
			return errors.New("checkout ledger requires redis")
		}
		checkoutDeps.Ledger = checkoutsvc.NewRedisLedger(redisClient, cfg.Checkout.LedgerTTL)
	}
	if cfg.PubSub.Enabled() {
		var psClient *pubsub.Client
		psClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, psClient.Close()) }()
		checkoutDeps.Notifier = checkoutsvc.NewPubSubNotifier(psClient)
		readiness["pubsub"] = psClient
	}

	deps := routes.Dependencies{
		Device:      device,
		Checkout:    checkoutDeps,
		CartMetrics: cartMetrics,
		Gatherer:    registry,
		Readiness:   readiness,
	}
	if redisClient != nil {
		deps.Idempotency = redisClient
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"device_backend": cfg.Device.Backend,
		"orders_mode":    cfg.Orders.Mode,
		"instance":       instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func deviceBackend(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client) (localstore.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Device.Backend)) {
	case config.DeviceBackendRedis:
		if redisClient == nil {
			return nil, errors.New("device backend redis requires " + config.EnvRedisURL)
		}
		return localstore.NewRedis(redisClient, cfg.Device.SessionTTL), nil
	case config.DeviceBackendDatabase:
		if dbClient == nil {
			return nil, errors.New("device backend database requires a database connection")
		}
		return localstore.NewDatabase(dbClient.DB()), nil
	case config.DeviceBackendMemory:
		return localstore.NewMemory(), nil
	default:
		return nil, errors.New("unknown device backend " + cfg.Device.Backend)
	}
}
