package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/database"
	"github.com/directed/course-backend/internal/handler"
	"github.com/directed/course-backend/internal/logger"
	"github.com/directed/course-backend/internal/notifier"
	"github.com/directed/course-backend/internal/repository"
	"github.com/directed/course-backend/internal/router"
	"github.com/directed/course-backend/internal/service"
	"github.com/directed/course-backend/internal/validator"
	"github.com/directed/course-backend/internal/worker"
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
		Str("notifier", cfg.NotifierDriver).
		Msg("Starting course backend")

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

	// ─── OTP Delivery ──────────────────────────────────────────────────
	otpNotifier, err := notifier.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure notifier")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	attemptRepo := repository.NewQuizAttemptRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	testimonialRepo := repository.NewTestimonialRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	accountService := service.NewAccountService(userRepo, authService, authService)
	passwordService := service.NewPasswordResetService(cfg, userRepo, authService, otpNotifier, log)
	quizService := service.NewQuizService(cfg, quizRepo, rdb, log)
	notificationService := service.NewNotificationService(notificationRepo, rdb)
	attemptService := service.NewQuizAttemptService(quizService, attemptRepo, notificationService, log)
	courseService := service.NewCourseService(courseRepo)
	progressService := service.NewProgressService(progressRepo)
	testimonialService := service.NewTestimonialService(testimonialRepo)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, accountService, passwordService, log),
		Quiz:         handler.NewQuizHandler(quizService, log),
		QuizAttempt:  handler.NewQuizAttemptHandler(attemptService, log),
		Course:       handler.NewCourseHandler(courseService, log),
		Progress:     handler.NewProgressHandler(progressService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Testimonial:  handler.NewTestimonialHandler(testimonialService, log),
		Media:        handler.NewMediaHandler(mediaService, log),
		WS:           handler.NewWSHandler(notificationService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	notificationWorker := worker.NewNotificationWorker(notificationRepo, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		notificationWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// 2. Stop background workers and wait for the queue batch to flush.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
