package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rx-line/internal/config"
	"rx-line/internal/db"
	"rx-line/internal/email"
	"rx-line/internal/gyazo"
	apihttp "rx-line/internal/http"
	"rx-line/internal/line"
	"rx-line/internal/llm"
	"rx-line/internal/repository"
	"rx-line/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventDedupTTL   = 24 * time.Hour
	shutdownTimeout = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	checks := map[string]apihttp.HealthCheck{
		"postgres": func(ctx context.Context) error { return db.Ping(ctx, pool) },
	}

	var (
		sessions    repository.SessionStore    = repository.NewMemorySessionStore()
		locker      repository.UserLocker      = repository.NewMemoryUserLocker()
		dedup       repository.EventDeduper    = repository.NewMemoryEventDeduper(eventDedupTTL)
		limiter     repository.AnalysisLimiter = repository.NewMemoryAnalysisLimiter(cfg.AnalysisRateWindow(), cfg.AnalysisRateMax)
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory session store", zap.Error(err))
		} else {
			sessions = repository.NewRedisSessionStore(redisClient, cfg.SessionTTL())
			locker = repository.NewRedisUserLocker(redisClient)
			dedup = repository.NewRedisEventDeduper(redisClient, eventDedupTTL)
			limiter = repository.NewRedisAnalysisLimiter(redisClient, cfg.AnalysisRateWindow(), cfg.AnalysisRateMax)
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
		cancel()
		defer redisClient.Close()
	} else {
		logger.Warn("redis not configured, sessions are kept in memory")
	}

	var notifier email.Sender = email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.PharmacistEmail, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			notifier = sender
		}
	}

	lineClient := line.NewClient(cfg.LineAPIBaseURL, cfg.LineDataAPIBaseURL, cfg.LineChannelAccessToken, logger)
	gyazoClient := gyazo.NewClient(cfg.GyazoUploadURL, cfg.GyazoAccessToken, logger)
	visionClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	prescriptionRepo := repository.NewPgPrescriptionRepository(pool)

	tasks := service.NewTaskRunner(logger)
	schedulingSvc := service.NewSchedulingService(
		lineClient,
		gyazoClient,
		visionClient,
		sessions,
		locker,
		prescriptionRepo,
		notifier,
		tasks,
		logger,
	).WithAnalysisLimiter(limiter)
	eventRouter := service.NewEventRouter(schedulingSvc, dedup, tasks, logger)

	jwtSvc := service.NewJWTService(cfg.AdminJWTSecret, 0)
	if !jwtSvc.Enabled() {
		logger.Warn("admin jwt secret not configured, admin api disabled")
	}

	webhookHandler := apihttp.NewWebhookHandler(eventRouter, logger)
	adminHandler := apihttp.NewAdminHandler(prescriptionRepo, logger)
	router := apihttp.NewRouter(logger, cfg.LineChannelSecret, webhookHandler, adminHandler, jwtSvc, checks)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	if !tasks.WaitTimeout(shutdownTimeout) {
		logger.Warn("background tasks still running at exit")
	}
}
