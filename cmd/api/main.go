package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/content-service/internal/api/http"
	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/generator"
	"github.com/spec-kit/content-service/internal/identity"
	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/persistence"
	"github.com/spec-kit/content-service/internal/repository"
	"github.com/spec-kit/content-service/internal/service"
	"github.com/spec-kit/content-service/internal/usage"
	"github.com/spec-kit/content-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	deps := map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	}

	var creationRepo repository.CreationRepository
	switch cfg.App.StoreDriver {
	case "sqlite":
		sqlite, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer sqlite.Close()
		if err := repository.EnsureSQLiteSchema(ctx, sqlite.DB); err != nil {
			logger.Fatal("failed to prepare sqlite schema", zap.Error(err))
		}
		creationRepo = repository.NewSQLiteCreationRepository(sqlite.DB)
		deps["sqlite"] = sqlite
	default:
		creationRepo = repository.NewCreationRepository(pg.PoolHandle())
	}

	metrics := observability.NewMetrics()
	userRepo := repository.NewUserRepository(pg.PoolHandle())
	ledger := usage.NewLedger(identity.NewDirectory(userRepo), logger, metrics)

	media, err := generator.NewCloudinary(cfg.Media)
	if err != nil {
		logger.Fatal("failed to configure media store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger, redis, cfg.Events))

	authService := service.NewAuthService(cfg.Auth, userRepo)
	generationService := service.NewGenerationService(service.GenerationDependencies{
		Ledger:         ledger,
		CreationRepo:   creationRepo,
		Text:           generator.NewChatCompletions(cfg.AI),
		Images:         generator.NewImageAPI(cfg.Image, &http.Client{Timeout: 60 * time.Second}),
		Media:          media,
		Resumes:        generator.NewPDFParser(),
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxResumeBytes: cfg.Upload.MaxResumeBytes,
	})
	creationService := service.NewCreationService(creationRepo, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), ledger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, metrics),
		Users:          handlers.NewUsersHandler(authService),
		AI:             handlers.NewAIHandler(generationService),
		User:           handlers.NewUserHandler(creationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
