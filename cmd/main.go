package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chivanit/medremind/internal/config"
	"github.com/chivanit/medremind/internal/domain"
	"github.com/chivanit/medremind/internal/handler"
	"github.com/chivanit/medremind/internal/health"
	"github.com/chivanit/medremind/internal/infra/lease"
	"github.com/chivanit/medremind/internal/infra/messaging"
	"github.com/chivanit/medremind/internal/infra/repository"
	"github.com/chivanit/medremind/internal/observability"
	"github.com/chivanit/medremind/internal/observability/metrics"
	"github.com/chivanit/medremind/internal/service/cadence"
	"github.com/chivanit/medremind/internal/service/clockzone"
	"github.com/chivanit/medremind/internal/service/course"
	"github.com/chivanit/medremind/internal/service/intake"
	"github.com/chivanit/medremind/internal/service/message"
	"github.com/chivanit/medremind/internal/service/tick"
	"github.com/chivanit/medremind/internal/service/window"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName: "medremind",
		Version:     Version,
	})
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		slog.Error("failed to initialize reminder metrics", slog.String("error", err.Error()))
		return 1
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DatabaseURL), &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect postgres", slog.String("error", err.Error()))
		return 1
	}
	if err := repository.Migrate(db); err != nil {
		slog.Error("failed to migrate schema", slog.String("error", err.Error()))
		return 1
	}

	var redisClient *redis.Client
	var runLease lease.Lease = lease.NewLocal(cfg.Reminder.MaxRunDuration())
	if cfg.Redis != nil {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			slog.Error("failed to instrument redis tracing",
				slog.String("error", err.Error()),
			)
			return 1
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			slog.Error("failed to instrument redis metrics",
				slog.String("error", err.Error()),
			)
			return 1
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect redis",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		runLease = lease.NewRedis(redisClient, cfg.Reminder.MaxRunDuration())
		slog.Info("redis connected, using shared run lease",
			slog.String("addr", cfg.Redis.Addr),
		)
	}

	store := repository.NewStore(db)
	resolver, err := clockzone.NewResolver(cfg.Reminder.DefaultTimezone)
	if err != nil {
		slog.Error("invalid default timezone",
			slog.String("timezone", cfg.Reminder.DefaultTimezone),
			slog.String("error", err.Error()),
		)
		return 1
	}

	windows := window.NewCalculator()
	courses := course.NewTracker(store)
	gate := cadence.NewGate(store, cfg.Reminder.Cadence())
	builder := message.NewBuilder()
	delivery := messaging.NewLineClient(cfg.Line.ChannelToken)

	orchestrator := tick.NewOrchestrator(
		store,
		delivery,
		runLease,
		resolver,
		windows,
		courses,
		gate,
		builder,
		reminderMetrics,
	)
	recorder := intake.NewRecorder(store, resolver, windows, courses, reminderMetrics)

	tickHandler := handler.NewTickHandler(orchestrator, cfg.Reminder.TickSecret)
	webhookHandler := handler.NewWebhookHandler(
		recorder,
		delivery,
		builder,
		cfg.Reminder.AckPhrase,
		cfg.Line.ChannelSecret,
	)

	r := gin.New()
	r.Use(gin.Recovery())

	healthChecker := health.NewChecker(db, redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/tick", tickHandler.HandleTick)
		v1.GET("/tick", tickHandler.HandleTick)
	}
	r.POST("/webhook/line", webhookHandler.HandleWebhook)

	if cfg.Reminder.TickCron != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.Reminder.TickCron, func() {
			runCtx, runCancel := context.WithTimeout(context.Background(), cfg.Reminder.MaxRunDuration())
			defer runCancel()
			if _, err := orchestrator.Run(runCtx, time.Now()); err != nil && !errors.Is(err, domain.ErrRunInProgress) {
				slog.Error("scheduled reminder run failed", slog.String("error", err.Error()))
			}
		})
		if err != nil {
			slog.Error("invalid tick cron expression",
				slog.String("cron", cfg.Reminder.TickCron),
				slog.String("error", err.Error()),
			)
			return 1
		}
		scheduler.Start()
		defer scheduler.Stop()
		slog.Info("in-process tick scheduler started",
			slog.String("cron", cfg.Reminder.TickCron),
		)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("cadence_minutes", cfg.Reminder.CadenceMinutes),
			slog.String("default_timezone", cfg.Reminder.DefaultTimezone),
			slog.Int("max_run_duration_seconds", cfg.Reminder.MaxRunDurationSeconds),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
