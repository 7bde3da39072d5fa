package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conceptdelta/examdesk/internal/config"
	"github.com/conceptdelta/examdesk/internal/database"
	"github.com/conceptdelta/examdesk/internal/handler"
	"github.com/conceptdelta/examdesk/internal/logger"
	"github.com/conceptdelta/examdesk/internal/repository"
	"github.com/conceptdelta/examdesk/internal/router"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/conceptdelta/examdesk/internal/validator"
	"github.com/conceptdelta/examdesk/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ExamDesk")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	resultRepo := repository.NewResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo)
	profileService := service.NewProfileService(userRepo, log)
	questionService := service.NewQuestionService(questionRepo)
	testService := service.NewTestService(testRepo, rdb, log)
	resultService := service.NewResultService(resultRepo, rdb, log)
	attemptService := service.NewAttemptService(testService, resultService, rdb, cfg.AttemptTickInterval, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, userService),
		Profile: handler.NewProfileHandler(profileService),
		Portal:  handler.NewPortalHandler(testService, resultService),
		Attempt: handler.NewAttemptHandler(attemptService, profileService),
		Admin:   handler.NewAdminHandler(questionService, testService, userService, resultService, profileService),
		WS:      handler.NewWSHandler(attemptService, cfg.AttemptTickInterval, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(resultRepo, rdb, log)
	go resultWorker.Start(workerCtx)

	// The attempt ticker drives every live countdown.
	go attemptService.Run(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published test payloads into Redis BEFORE accepting traffic.
	// This avoids race conditions from lazy loading under thundering herd.
	if err := testService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the ticker and worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
