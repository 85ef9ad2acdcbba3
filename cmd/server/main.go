package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskvault/backend/api/handler"
	"github.com/taskvault/backend/internal/config"
	"github.com/taskvault/backend/internal/infrastructure/auditspool"
	"github.com/taskvault/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskvault/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskvault/backend/internal/infrastructure/redis"
	"github.com/taskvault/backend/internal/middleware"
	"github.com/taskvault/backend/internal/router"
	"github.com/taskvault/backend/internal/services"
	"github.com/taskvault/backend/internal/services/lifecycle"
	"github.com/taskvault/backend/pkg/httpcontext"
	"github.com/taskvault/backend/pkg/logger"
	"github.com/taskvault/backend/pkg/password"
	"github.com/taskvault/backend/pkg/token"
	"github.com/taskvault/backend/repository/postgres"
	authUC "github.com/taskvault/backend/usecase/auth"
	taskUC "github.com/taskvault/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.CancelOnSignal(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register(lifecycle.StageStores, "postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register(lifecycle.StageStores, "redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	spool, err := auditspool.Open(cfg.Audit.SpoolPath, "audit")
	if err != nil {
		zapLogger.Fatal("failed to open audit spool", zap.Error(err))
	}
	manager.Register(lifecycle.StageStores, "audit_spool", func(ctx context.Context) error {
		return spool.Close()
	})

	mon := monitor.New(pool, redisClient, spool, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register(lifecycle.StageWorkers, "monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	auditTrail := services.NewAuditTrail(redisClient, spool, mon, zapLogger, services.TrailConfig{
		Key:            cfg.Audit.Key,
		MaxEntries:     cfg.Audit.MaxEntries,
		DrainInterval:  cfg.Audit.DrainInterval,
		MaxRetries:     cfg.Audit.MaxRetries,
		RetentionHours: cfg.Audit.RetentionHours,
	})
	auditTrail.Start()
	manager.Register(lifecycle.StageWorkers, "audit_trail", func(ctx context.Context) error {
		auditTrail.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	authUseCase := authUC.New(userRepo, hasher, issuer, auditTrail, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(userRepo, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.TokenAuth(issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register(lifecycle.StageTraffic, "http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
