package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
	"github.com/NgariMwangi/Notes-API/internal/infra/config"
	"github.com/NgariMwangi/Notes-API/internal/infra/database"
	kafkainfra "github.com/NgariMwangi/Notes-API/internal/infra/kafka"
	"github.com/NgariMwangi/Notes-API/internal/infra/logger"
	redisinfra "github.com/NgariMwangi/Notes-API/internal/infra/redis"
	postgresrepo "github.com/NgariMwangi/Notes-API/internal/repository/postgres"
	redisrepo "github.com/NgariMwangi/Notes-API/internal/repository/redis"
	"github.com/NgariMwangi/Notes-API/internal/transport/http/middleware"
	"github.com/NgariMwangi/Notes-API/internal/transport/http/routes"
	"github.com/NgariMwangi/Notes-API/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient := redisinfra.NewClient(cfg.Redis, log)

	store := redisrepo.NewStore(redisClient.Client(), cfg.Redis.OpTimeout, log)

	rateWindow := cfg.RateLimit.Window
	if rateWindow <= 0 {
		rateWindow = 10 * time.Minute
	}

	limiter := redisrepo.NewFixedWindowLimiter(store, "rate:ip", cfg.RateLimit.Limit, rateWindow)
	noteCache := redisrepo.NewNoteCache(store, "note", cfg.Cache.NoteTTL, log)
	// The recency list shares the rate window so both age out together.
	recencyTracker := redisrepo.NewRecencyTracker(store, "recent:ip", cfg.Recent.Limit, rateWindow, log)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	noteRepo := postgresrepo.NewNoteRepository(pool)
	noteService := usecase.NewNoteService(noteRepo, noteCache, recencyTracker, eventPublisher, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: middleware.NewRateLimitGate(limiter, log),
		Metrics:     metrics,
		Notes:       noteService,
		Database:    pool,
		Cache:       redisClient,
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting notes API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
