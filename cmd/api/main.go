package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-triage/internal/api/http"
	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/insights"
	"github.com/spec-kit/ticket-triage/internal/notify"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/persistence"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/retrieval"
	"github.com/spec-kit/ticket-triage/internal/token"
	"github.com/spec-kit/ticket-triage/internal/triage"
	"github.com/spec-kit/ticket-triage/internal/worker"
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

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		ticketRepo     repository.TicketRepository
		escalationRepo repository.EscalationRepository
		feedbackRepo   repository.FeedbackRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
		escalationRepo = repository.NewEscalationRepository(pool)
		feedbackRepo = repository.NewFeedbackRepository(pool)
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
		escalationRepo = repository.NewMemoryEscalationRepository()
		feedbackRepo = repository.NewMemoryFeedbackRepository()
	}

	var searcher retrieval.Searcher = retrieval.NewHTTPSearcher(cfg.Retrieval.BaseURL, cfg.Retrieval.Timeout())
	if redis.Enabled() {
		searcher = retrieval.NewCachedSearcher(redis.Client, searcher, cfg.Retrieval.CacheTTL(), logger)
	}
	retriever := retrieval.NewRetriever(searcher, cfg.Triage.SnippetBonusCap, logger)

	dispatcher := events.NewInMemoryDispatcher()

	sinks := []notify.Sink{notify.NewEmailSink(cfg.Notification.EmailFrom, logger)}
	if cfg.Notification.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.Notification.WebhookURL, cfg.Notification.Timeout()))
	}
	notificationService := notify.NewService(dispatcher, sinks, cfg.Notification.Timeout(), logger)
	worker.StartNotificationWorker(notificationService)

	escalationMgr := triage.NewEscalationManager(escalationRepo, logger)
	orchestrator := triage.NewOrchestrator(triage.Dependencies{
		TicketRepo:    ticketRepo,
		FeedbackRepo:  feedbackRepo,
		Retriever:     retriever,
		EscalationMgr: escalationMgr,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	}, triage.Config{
		MaxAttempts:         cfg.Triage.MaxAttempts,
		ConfidenceThreshold: cfg.Triage.ConfidenceThreshold,
		SentimentThreshold:  cfg.Triage.SentimentThreshold,
		SnippetBonusCap:     cfg.Triage.SnippetBonusCap,
	})

	tokenManager := token.NewManager(cfg.Feedback.TokenSecret, cfg.Feedback.TokenTTL())
	analyzer := insights.NewAnalyzer(ticketRepo, escalationRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(pg, redis),
		Tickets:  handlers.NewTicketsHandler(ticketRepo, orchestrator, tokenManager),
		Insights: handlers.NewInsightsHandler(analyzer),
		Registry: registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
