package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fmht/buzon-service/internal/api/http"
	"github.com/fmht/buzon-service/internal/api/http/handlers"
	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/config"
	"github.com/fmht/buzon-service/internal/events"
	"github.com/fmht/buzon-service/internal/observability"
	"github.com/fmht/buzon-service/internal/persistence"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/service"
	"github.com/fmht/buzon-service/internal/storage"
	"github.com/fmht/buzon-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	store, err := storage.NewLocal(cfg.Storage.EvidenceDir)
	if err != nil {
		logger.Fatal("failed to prepare evidence storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	communicationRepo := repository.NewCommunicationRepository(pool)
	submitterRepo := repository.NewSubmitterRepository(pool)
	trackingRepo := repository.NewTrackingRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	evidenceRepo := repository.NewEvidenceRepository(pool)
	catalogCache := repository.NewRedisCatalogCache(redis.Handle(), cfg.Redis.CatalogKeySpace, cfg.Redis.CatalogTTL())

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	catalogService := service.NewCatalogService(service.CatalogDependencies{
		StatusRepo:   statusRepo,
		CategoryRepo: categoryRepo,
		Cache:        catalogCache,
		Logger:       logger,
	})
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		CommunicationRepo: communicationRepo,
		SubmitterRepo:     submitterRepo,
		TrackingRepo:      trackingRepo,
		Catalog:           catalogService,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	communicationService := service.NewCommunicationService(service.CommunicationDependencies{
		CommunicationRepo: communicationRepo,
		SubmitterRepo:     submitterRepo,
		TrackingRepo:      trackingRepo,
		EvidenceRepo:      evidenceRepo,
		Catalog:           catalogService,
		Store:             store,
		Logger:            logger,
	})
	trackingService := service.NewTrackingService(service.TrackingDependencies{
		CommunicationRepo: communicationRepo,
		TrackingRepo:      trackingRepo,
		AdminRepo:         adminRepo,
		Catalog:           catalogService,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TrackingService: trackingService,
		AdminRepo:       adminRepo,
		Logger:          logger,
	})
	evidenceService := service.NewEvidenceService(cfg.Storage, service.EvidenceDependencies{
		CommunicationRepo: communicationRepo,
		EvidenceRepo:      evidenceRepo,
		Store:             store,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	adminService := service.NewAdminService(*cfg, service.AdminDependencies{AdminRepo: adminRepo, Logger: logger})
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	revocations := repository.NewRedisTokenDenylist(redis.Handle(), cfg.Redis.RevokedKeySpace)
	authService := service.NewAuthService(service.AuthDependencies{
		AdminRepo:    adminRepo,
		TokenManager: tokenManager,
		Revocations:  revocations,
		Logger:       logger,
	})
	submitterService := service.NewSubmitterService(submitterRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	if err := adminService.EnsureBootstrapAdmin(ctx, cfg.Auth); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Storage.MaxEvidenceBytes)*service.MaxEvidenceFiles + 1<<20,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Public:         handlers.NewPublicHandler(intakeService, communicationService, evidenceService),
		Auth:           handlers.NewAuthHandler(authService, adminService),
		Communications: handlers.NewCommunicationsHandler(communicationService),
		Tracking:       handlers.NewTrackingHandler(trackingService, assignmentService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Admins:         handlers.NewAdminsHandler(adminService),
		Submitters:     handlers.NewSubmittersHandler(submitterService),
		Evidence:       handlers.NewEvidenceHandler(evidenceService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager, adminRepo, revocations),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
