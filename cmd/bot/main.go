package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskdeck/bot/api/handler"
	"github.com/taskdeck/bot/internal/commands"
	"github.com/taskdeck/bot/internal/config"
	"github.com/taskdeck/bot/internal/infrastructure/monitor"
	pgInfra "github.com/taskdeck/bot/internal/infrastructure/postgres"
	redisInfra "github.com/taskdeck/bot/internal/infrastructure/redis"
	"github.com/taskdeck/bot/internal/interactions"
	"github.com/taskdeck/bot/internal/middleware"
	"github.com/taskdeck/bot/internal/observability"
	"github.com/taskdeck/bot/internal/platform"
	"github.com/taskdeck/bot/internal/router"
	"github.com/taskdeck/bot/internal/services/lifecycle"
	"github.com/taskdeck/bot/internal/services/reminder"
	"github.com/taskdeck/bot/pkg/httpcontext"
	"github.com/taskdeck/bot/pkg/logger"
	"github.com/taskdeck/bot/repository"
	boltRepo "github.com/taskdeck/bot/repository/bolt"
	pgRepo "github.com/taskdeck/bot/repository/postgres"
	taskUC "github.com/taskdeck/bot/usecase/task"

	goRedis "github.com/redis/go-redis/v9"
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
	manager.Listen(cancel)

	var (
		taskRepo repository.TaskRepository
		userRepo repository.UserRepository
		pinger   monitor.StoragePinger
		backend  string
	)

	if cfg.UsePostgres() {
		if cfg.Migrations.Enabled {
			if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
				zapLogger.Fatal("migrations failed", zap.Error(err))
			}
		}

		pool := pgInfra.NewLazyPool(cfg.Database, zapLogger)
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})

		taskRepo = pgRepo.NewTaskRepository(pool)
		userRepo = pgRepo.NewUserRepository(pool)
		pinger = pool
		backend = "postgres"
	} else {
		store := boltRepo.NewStore(cfg.Bolt.Path)
		manager.Register("bolt", func(ctx context.Context) error {
			return store.Close()
		})

		taskRepo = boltRepo.NewTaskRepository(store)
		userRepo = boltRepo.NewUserRepository(store)
		pinger = store
		backend = "bolt"
	}

	var redisClient *goRedis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Warn("redis unavailable, display-name cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			manager.Register("redis", func(ctx context.Context) error {
				return redisClient.Close()
			})
		}
	}

	mon := monitor.New(pinger, backend, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	rest := platform.NewRestClient(cfg.Platform, zapLogger)
	chat := platform.NewNameCache(rest, redisClient, cfg.Redis.NameTTL, zapLogger)

	var metrics *observability.Metrics
	if cfg.HTTP.EnableMetrics {
		metrics = observability.NewMetrics(cfg.AppName)
	}

	engine := taskUC.NewEngine(taskRepo, userRepo, chat, metrics, zapLogger)

	registry := commands.NewRegistry(chat, zapLogger)
	registry.Register(commands.NewTodoCommand(engine, chat, cfg.Commands.Cooldown))
	registry.Register(commands.NewTasksCommand(taskRepo, userRepo, chat, cfg.Commands.ListEphemeral))

	if cfg.Platform.AppID != "" {
		regCtx, regCancel := context.WithTimeout(appCtx, 30*time.Second)
		if err := rest.RegisterCommands(regCtx, registry.Specs()); err != nil {
			zapLogger.Error("command registration failed", zap.Error(err))
		} else {
			zapLogger.Info("commands registered", zap.Int("count", len(registry.Specs())))
		}
		regCancel()
	}

	ixRouter := interactions.NewRouter(registry, engine, metrics, zapLogger)

	verifier, err := apiHandler.NewSignatureVerifier(cfg.Platform.PublicKey)
	if err != nil {
		zapLogger.Fatal("invalid public key", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Interaction: apiHandler.NewInteractionHandler(ixRouter, verifier, ctxAdapter, zapLogger),
		Health:      apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Stats:       apiHandler.NewStatsHandler(taskRepo, userRepo, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.Admin.JWTSecret, zapLogger)
	r := router.New(handlers, authMiddleware, cfg.HTTP.EnableMetrics)

	if cfg.Reminder.Enabled {
		sweeper := reminder.New(cfg.Reminder, taskRepo, chat, zapLogger)
		if err := sweeper.Start(cfg.Reminder.Schedule); err != nil {
			zapLogger.Fatal("reminder schedule invalid", zap.Error(err))
		}
		manager.Register("reminder", func(ctx context.Context) error {
			sweeper.Stop(ctx)
			return nil
		})
	}

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("backend", backend))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
