package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/moderation-bridge/internal/api/http"
	"github.com/spec-kit/moderation-bridge/internal/api/http/handlers"
	"github.com/spec-kit/moderation-bridge/internal/auth"
	"github.com/spec-kit/moderation-bridge/internal/cache"
	"github.com/spec-kit/moderation-bridge/internal/config"
	"github.com/spec-kit/moderation-bridge/internal/events"
	"github.com/spec-kit/moderation-bridge/internal/observability"
	"github.com/spec-kit/moderation-bridge/internal/persistence"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/platform/content"
	"github.com/spec-kit/moderation-bridge/internal/repository"
	"github.com/spec-kit/moderation-bridge/internal/service"
	"github.com/spec-kit/moderation-bridge/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
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

	metrics := observability.NewMetrics()

	chatClient := chat.NewRESTClient(cfg.Chat, logger)
	contentClient := content.NewRESTClient(cfg.Content, logger)

	pool := pg.PoolHandle()
	linkRepo := repository.NewLinkRepository(pool)
	mirrorRepo := repository.NewMirrorRepository(pool)
	banRepo := repository.NewBanRepository(pool)
	phraseRepo := repository.NewPhraseRepository(pool)

	resolver := service.NewGraphResolver(linkRepo, chatClient, contentClient, cfg.Sync.GraphDepthCap, logger)
	renderer := service.NewTicketRenderer(contentClient, cfg.Content.BaseURL, cfg.Content.SafeBaseURL, cfg.Sync.DescriptionLimit, logger)
	projector := service.NewTicketProjector(mirrorRepo, chatClient, renderer, cfg.Chat.ReportsChannelID, cfg.Chat.BotUserID, metrics, logger)
	alertEngine := service.NewPhraseAlertEngine(logger)

	alertSuppress := cache.NewTTL(cfg.Sync.AlertSuppressTTL())
	alertSuppress.StartPruner(ctx, cfg.Sync.AlertSuppressTTL())

	syncService := service.NewEventSyncService(
		linkRepo, phraseRepo, projector, alertEngine, chatClient,
		alertSuppress, cfg.Chat, cfg.Content.BaseURL, metrics, logger)

	subscriber := events.NewSubscriber(redis.Client, syncService, cfg.Sync.EventQueueSize, logger, metrics)
	go func() {
		if err := subscriber.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("event subscriber stopped", zap.Error(err))
		}
	}()

	sweep := worker.NewBanSweepWorker(banRepo, linkRepo, chatClient, cfg.Sync.SweepInterval(), metrics, logger)
	go sweep.Run(ctx)

	linkService := service.NewLinkService(service.LinkDependencies{
		LinkRepo:   linkRepo,
		BanRepo:    banRepo,
		PhraseRepo: phraseRepo,
		Resolver:   resolver,
		DepthCap:   cfg.Sync.GraphDepthCap,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(cfg.Auth, tokens),
		Links:          handlers.NewLinksHandler(linkService),
		Phrases:        handlers.NewPhrasesHandler(linkService),
		Bans:           handlers.NewBansHandler(linkService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
