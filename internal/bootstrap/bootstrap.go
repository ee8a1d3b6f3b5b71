package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/app-extractor/internal/config"
	"github.com/kirillkom/app-extractor/internal/core/usecase"
	"github.com/kirillkom/app-extractor/internal/infrastructure/appgen"
	"github.com/kirillkom/app-extractor/internal/infrastructure/queue/nats"
	"github.com/kirillkom/app-extractor/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/app-extractor/internal/infrastructure/resilience"
	"github.com/kirillkom/app-extractor/internal/infrastructure/session"
)

type App struct {
	Config config.Config

	Queue      *nats.Queue
	ExtractUC  *usecase.AppExtractUseCase
	ScheduleUC *usecase.ScheduleExtractUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.SessionSigningKey) == "" {
		return nil, errors.New("SESSION_SIGNING_KEY is required")
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	binder, err := session.NewBinder([]byte(cfg.SessionSigningKey), cfg.SessionTTL, store)
	if err != nil {
		closeStore()
		_ = db.Close()
		return nil, fmt.Errorf("init session binder: %w", err)
	}

	logger := slog.Default()
	generator := appgen.New(cfg.AppGenURL, appgen.Options{
		Timeout:            cfg.AppGenTimeout,
		ResilienceExecutor: resilience.NewExecutorWithLogger(cfg.Resilience(), logger),
	})

	queue, err := nats.New(cfg.NATSURL, cfg.NATSRequestSubject, cfg.NATSResultSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutorWithLogger(cfg.Resilience(), logger),
	})
	if err != nil {
		closeStore()
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	extractUC := usecase.NewAppExtractUseCase(
		postgres.NewAccountRepository(db),
		postgres.NewTenantRepository(db),
		postgres.NewAppRepository(db),
		binder,
		generator,
		logger,
	)

	return &App{
		Config: cfg,
		Queue:  queue,

		ExtractUC:  extractUC,
		ScheduleUC: usecase.NewScheduleExtractUseCase(queue),

		closeFn: func() {
			queue.Close()
			closeStore()
			_ = db.Close()
		},
	}, nil
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStore)) {
	case "", "memory":
		return session.NewMemoryStore(), func() {}, nil
	case "redis":
		store, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
