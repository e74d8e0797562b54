// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/forgeworks/makerspace-backend/internal/admin"
	"github.com/forgeworks/makerspace-backend/internal/audit"
	"github.com/forgeworks/makerspace-backend/internal/auth"
	"github.com/forgeworks/makerspace-backend/internal/config"
	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/health"
	"github.com/forgeworks/makerspace-backend/internal/machine"
	"github.com/forgeworks/makerspace-backend/internal/middleware"
	"github.com/forgeworks/makerspace-backend/internal/resource"
	"github.com/forgeworks/makerspace-backend/internal/role"
	"github.com/forgeworks/makerspace-backend/internal/semester"
	"github.com/forgeworks/makerspace-backend/internal/server"
	"github.com/forgeworks/makerspace-backend/internal/usage"
	"github.com/forgeworks/makerspace-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized", "algorithm", "HS256")

	roleRepo := role.NewRepository(db.DB)
	semesterRepo := semester.NewRepository(db.DB)
	semesterSvc := semester.NewService(db.DB, semesterRepo)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(db.DB, userRepo, roleRepo, semesterSvc)
	userHandler := user.NewHandler(userSvc)

	roleSvc := role.NewService(db.DB, roleRepo)
	roleHandler := role.NewHandler(roleSvc)
	semesterHandler := semester.NewHandler(semesterSvc)

	resourceRepo := resource.NewRepository(db.DB)
	resourceSvc := resource.NewService(db.DB, resourceRepo)
	resourceHandler := resource.NewHandler(resourceSvc)

	machineRepo := machine.NewRepository(db.DB)
	machineSvc := machine.NewService(db.DB, machineRepo)
	machineHandler := machine.NewHandler(machineSvc)

	usageSvc := usage.NewService(
		db.DB,
		usage.NewRepository(db.DB),
		machineRepo,
		semesterRepo,
		audit.NewRepository(db.DB),
		redis.Client,
		cfg.Status.CacheTTL,
	)
	usageHandler := usage.NewHandler(usageSvc)

	authSvc := auth.NewService(jwtManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig: cfg.Server,
		Logger:       logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	usageHandler.RegisterPublicRoutes(router)

	authenticator := middleware.Authenticator(jwtManager)
	loginLimiter := middleware.LoginRateLimiter(redis.Client)
	gate := middleware.NewGate(userSvc)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, loginLimiter)
		userHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			userHandler.RegisterRoutes(r, gate)
			roleHandler.RegisterRoutes(r, gate)
			resourceHandler.RegisterRoutes(r, gate)
			machineHandler.RegisterRoutes(r, gate)
			semesterHandler.RegisterRoutes(r, gate)
			usageHandler.RegisterRoutes(r, gate)
			adminHandler.RegisterRoutes(r, gate)
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	healthHandler.SetShutdown(true)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
