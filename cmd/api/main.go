package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/quotelane/quotelane-backend/api/routes"
	internalauth "github.com/quotelane/quotelane-backend/internal/auth"
	"github.com/quotelane/quotelane-backend/internal/customers"
	"github.com/quotelane/quotelane-backend/internal/employees"
	"github.com/quotelane/quotelane-backend/internal/notifications"
	"github.com/quotelane/quotelane-backend/internal/purchaseorders"
	"github.com/quotelane/quotelane-backend/internal/quotes"
	"github.com/quotelane/quotelane-backend/pkg/auth/session"
	"github.com/quotelane/quotelane-backend/pkg/config"
	"github.com/quotelane/quotelane-backend/pkg/db"
	"github.com/quotelane/quotelane-backend/pkg/logger"
	"github.com/quotelane/quotelane-backend/pkg/metrics"
	"github.com/quotelane/quotelane-backend/pkg/migrate"
	"github.com/quotelane/quotelane-backend/pkg/orderproc"
	"github.com/quotelane/quotelane-backend/pkg/pubsub"
	"github.com/quotelane/quotelane-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}

	legacyClient := db.NewLazyClient(cfg.LegacyDB, logg)

	closers := func() error {
		return multierr.Combine(
			pubsubClient.Close(),
			legacyClient.Close(),
			redisClient.Close(),
			dbClient.Close(),
		)
	}
	defer func() {
		if err := closers(); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	employeeService, err := employees.NewService(employees.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create employee service", err)
		os.Exit(1)
	}

	authService, err := internalauth.NewService(employeeService, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	notifier, err := notifications.NewNotifier(pubsubClient.NotificationPublisher(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}

	quoteRepo := quotes.NewRepository(dbClient.DB())
	quoteService, err := quotes.NewService(quoteRepo, employeeService, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(legacyClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	processor, err := orderproc.NewClient(cfg.OrderProc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order processing client", err)
		os.Exit(1)
	}

	purchaseOrderService, err := purchaseorders.NewService(quoteRepo, processor, employeeService, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase order service", err)
		os.Exit(1)
	}

	requestMetrics := metrics.NewRequestMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			requestMetrics,
			authService,
			employeeService,
			quoteService,
			customerService,
			purchaseOrderService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
