package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatepilot_backend/internal/auth"
	authrepo "estatepilot_backend/internal/auth/repository"
	authservice "estatepilot_backend/internal/auth/service"
	"estatepilot_backend/internal/conversation"
	convrepo "estatepilot_backend/internal/conversations/repository"
	convservice "estatepilot_backend/internal/conversations/service"
	"estatepilot_backend/internal/events"
	"estatepilot_backend/internal/followups"
	followupsrepo "estatepilot_backend/internal/followups/repository"
	followupsservice "estatepilot_backend/internal/followups/service"
	apphttp "estatepilot_backend/internal/http"
	"estatepilot_backend/internal/http/router"
	"estatepilot_backend/internal/leads"
	leadsrepo "estatepilot_backend/internal/leads/repository"
	leadsservice "estatepilot_backend/internal/leads/service"
	"estatepilot_backend/internal/projects"
	projectsrepo "estatepilot_backend/internal/projects/repository"
	projectsservice "estatepilot_backend/internal/projects/service"
	"estatepilot_backend/internal/reply"
	"estatepilot_backend/internal/scheduler"
	"estatepilot_backend/internal/webhook"
	"estatepilot_backend/internal/whatsapp"
	"estatepilot_backend/migrations"
	"estatepilot_backend/platform/ai/gemini"
	"estatepilot_backend/platform/config"
	"estatepilot_backend/platform/db"
	"estatepilot_backend/platform/logger"
	"estatepilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.Migrate(ctx, pool, migrations.Files)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	whatsappClient := whatsapp.NewClient(cfg, log)

	var model gemini.Generator
	if cfg.IsGeminiEnabled() {
		client, err := gemini.New(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize gemini client", "error", err)
			panic("failed to initialize gemini client: " + err.Error())
		}
		model = client
		log.Info("gemini client initialized", "model", cfg.GetGeminiModel())
	} else {
		log.Warn("gemini disabled; replies fall back to templates")
	}
	replies := reply.NewGenerator(model, log)

	followUpQueue, closeQueue := initFollowUpQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authService := authservice.New(authrepo.New(pool), cfg, log)
	projectsService := projectsservice.New(projectsrepo.New(pool), log)
	leadsRepo := leadsrepo.New(pool)
	leadsService := leadsservice.New(leadsRepo, eventBus, log)
	convService := convservice.New(convrepo.New(pool), eventBus, log)

	// Inbound handling and follow-up delivery serialize per lead on this mutex.
	leadLocks := conversation.NewKeyedMutex()

	followUpsService := followupsservice.New(
		followupsrepo.New(pool),
		leadLocks,
		leadsRepo,
		projectsService,
		replies,
		whatsappClient,
		followUpQueue,
		convService,
		eventBus,
		log,
	)
	followUpsService.RegisterEventHandlers(eventBus)

	// Inbound conversation pipeline fed by the webhook module.
	convEngine := conversation.NewEngine(
		leadLocks,
		projectsService,
		leadsService,
		convService,
		replies,
		whatsappClient,
		followUpsService,
		eventBus,
		log,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			auth.NewModule(authService),
			projects.NewModule(projectsService, val),
			leads.NewModule(leadsService, convService),
			followups.NewModule(followUpsService),
			webhook.NewModule(cfg, authService, convEngine, log),
		},
	}

	httpEngine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- httpEngine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initFollowUpQueue(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-ups rely on the sweep only")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
