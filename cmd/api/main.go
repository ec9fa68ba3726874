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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/petadopt/petadopt-backend/api/routes"
	"github.com/petadopt/petadopt-backend/internal/auth"
	"github.com/petadopt/petadopt-backend/internal/pets"
	"github.com/petadopt/petadopt-backend/internal/users"
	"github.com/petadopt/petadopt-backend/pkg/auth/session"
	"github.com/petadopt/petadopt-backend/pkg/config"
	"github.com/petadopt/petadopt-backend/pkg/db"
	"github.com/petadopt/petadopt-backend/pkg/env"
	"github.com/petadopt/petadopt-backend/pkg/logger"
	"github.com/petadopt/petadopt-backend/pkg/metrics"
	"github.com/petadopt/petadopt-backend/pkg/migrate"
	"github.com/petadopt/petadopt-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	deps := routes.Dependencies{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
	}

	var sessionManager *session.Manager
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		if sessionManager, err = session.NewRedisManager(redisClient, cfg.Session); err != nil {
			return err
		}
		deps.Redis = redisClient
		deps.RateLimiter = redisClient
	} else {
		if cfg.App.IsProd() {
			return errors.New("redis is required in production")
		}
		logg.Warn(ctx, "redis not configured, keeping sessions in process memory")
		store := session.NewMemoryStore()
		if sessionManager, err = session.NewManager(store, cfg.Session); err != nil {
			return err
		}
		deps.RateLimiter = store
	}
	deps.Sessions = sessionManager

	var listingMetrics *metrics.ListingMetrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
		deps.AuthMetrics = metrics.NewAuthMetrics(reg)
		listingMetrics = metrics.NewListingMetrics(reg)
		deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	userRepo := users.NewRepository(dbClient.DB())
	deps.Users = userRepo

	if deps.AuthService, err = auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
	}); err != nil {
		return err
	}
	if deps.RegisterService, err = auth.NewRegisterService(auth.RegisterServiceParams{
		DB:               dbClient,
		PasswordConfig:   cfg.Password,
		AllowAdminSignup: cfg.AdminSignupAllowed(),
	}); err != nil {
		return err
	}
	if deps.PetService, err = pets.NewService(pets.NewRepository(dbClient.DB()), dbClient, listingMetrics); err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"db_driver":    dbClient.Dialect(),
		"redis":        deps.Redis != nil,
		"admin_signup": cfg.AdminSignupAllowed(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
