package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatepilot_backend/internal/conversation"
	convrepo "estatepilot_backend/internal/conversations/repository"
	convservice "estatepilot_backend/internal/conversations/service"
	"estatepilot_backend/internal/events"
	followupsrepo "estatepilot_backend/internal/followups/repository"
	followupsservice "estatepilot_backend/internal/followups/service"
	leadsrepo "estatepilot_backend/internal/leads/repository"
	projectsrepo "estatepilot_backend/internal/projects/repository"
	projectsservice "estatepilot_backend/internal/projects/service"
	"estatepilot_backend/internal/reply"
	"estatepilot_backend/internal/scheduler"
	"estatepilot_backend/internal/whatsapp"
	"estatepilot_backend/platform/ai/gemini"
	"estatepilot_backend/platform/config"
	"estatepilot_backend/platform/db"
	"estatepilot_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	whatsappClient := whatsapp.NewClient(cfg, log)

	var model gemini.Generator
	if cfg.IsGeminiEnabled() {
		client, err := gemini.New(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize gemini client", "error", err)
			panic("failed to initialize gemini client: " + err.Error())
		}
		model = client
	} else {
		log.Warn("gemini disabled; follow-ups fall back to templates")
	}
	replies := reply.NewGenerator(model, log)

	queueClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up queue client", "error", err)
		panic("failed to initialize follow-up queue client: " + err.Error())
	}
	defer func() { _ = queueClient.Close() }()

	projectsService := projectsservice.New(projectsrepo.New(pool), log)
	convService := convservice.New(convrepo.New(pool), eventBus, log)

	// The per-lead mutex is process local and only orders deliveries
	// inside this worker. Overlap with webhook handling in the API
	// process is caught by the lead re-read before each send.
	followUpsService := followupsservice.New(
		followupsrepo.New(pool),
		conversation.NewKeyedMutex(),
		leadsrepo.New(pool),
		projectsService,
		replies,
		whatsappClient,
		queueClient,
		convService,
		eventBus,
		log,
	)

	sweep := scheduler.NewSweep(followUpsService, log, cfg.GetFollowUpSweepInterval())
	go sweep.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, followUpsService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
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
