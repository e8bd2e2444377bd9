package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/handler"
	"github.com/directed/course-backend/internal/middleware"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Quiz         *handler.QuizHandler
	QuizAttempt  *handler.QuizAttemptHandler
	Course       *handler.CourseHandler
	Progress     *handler.ProgressHandler
	Notification *handler.NotificationHandler
	Testimonial  *handler.TestimonialHandler
	Media        *handler.MediaHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the lifetime of background helpers such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	tokens middleware.TokenValidator,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Spreadsheets and media are already compressed.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			p := c.Request.URL.Path
			return strings.HasPrefix(p, "/uploads") || strings.HasSuffix(p, "/export")
		},
	}))

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := []gin.HandlerFunc{
		middleware.RequireJWT(tokens),
		middleware.RejectRevokedTokens(tokens, log),
	}
	instructorOnly := chain(requireAuth, middleware.RequireRole(model.RoleInstructor))

	api := router.Group("/api/v1")

	// ─── 1. Auth Group (No Store, OTP Rate Limited) ────────────────────
	otpLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimitPerMinute, time.Minute)

	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/forgot-password", otpLimiter.Middleware(), handlers.Auth.ForgotPassword)
		auth.POST("/verify-otp", otpLimiter.Middleware(), handlers.Auth.VerifyOTP)
		auth.POST("/reset-password-otp", otpLimiter.Middleware(), handlers.Auth.ResetPasswordOTP)

		// Authenticated profile routes
		protected := auth.Group("", requireAuth...)
		{
			protected.GET("/me", handlers.Auth.Me)
			protected.POST("/logout", handlers.Auth.Logout)
			protected.PUT("/reset-password", handlers.Auth.ChangePassword)
		}
	}

	// ─── 2. Quizzes ────────────────────────────────────────────────────
	quizzes := api.Group("/quizzes")
	{
		quizzes.POST("", chain(instructorOnly, handlers.Quiz.CreateQuiz)...)
		quizzes.GET("/:lessonId", chain(requireAuth, handlers.Quiz.GetLessonQuiz)...)
	}

	// ─── 3. Quiz Attempts (submission is open, export is not) ──────────
	attempts := api.Group("/quiz-attempts")
	{
		attempts.POST("", handlers.QuizAttempt.SubmitAttempt)
		attempts.GET("/:quizId", handlers.QuizAttempt.ListAttempts)
		attempts.GET("/:quizId/export", chain(instructorOnly, handlers.QuizAttempt.ExportAttempts)...)
	}

	// ─── 4. Courses ────────────────────────────────────────────────────
	courses := api.Group("/courses")
	{
		courses.GET("", handlers.Course.ListCourses)
		courses.GET("/:id", handlers.Course.GetCourse)
		courses.POST("", chain(instructorOnly, handlers.Course.CreateCourse)...)
		courses.PUT("/:id", chain(instructorOnly, handlers.Course.UpdateCourse)...)
		courses.DELETE("/:id", chain(instructorOnly, handlers.Course.DeleteCourse)...)
	}

	// ─── 5. Learner Progress ───────────────────────────────────────────
	progress := api.Group("/progress", requireAuth...)
	{
		progress.POST("/lesson", handlers.Progress.UpdateLesson)
		progress.GET("/course/:id", handlers.Progress.GetCourseProgress)
		progress.PUT("/course/:id", handlers.Progress.RecalculateCourseProgress)
	}

	// ─── 6. Notifications ──────────────────────────────────────────────
	notifications := api.Group("/notifications", requireAuth...)
	{
		notifications.GET("", handlers.Notification.ListNotifications)
		notifications.PATCH("/:id/read", handlers.Notification.MarkRead)
	}

	// ─── 7. Testimonials (Public) ──────────────────────────────────────
	testimonials := api.Group("/testimonials")
	{
		testimonials.GET("", handlers.Testimonial.ListTestimonials)
		testimonials.POST("", handlers.Testimonial.CreateTestimonial)
	}

	// ─── 8. Media ──────────────────────────────────────────────────────
	api.POST("/media/upload", chain(instructorOnly, handlers.Media.UploadMedia)...)

	// ─── 9. WebSocket Group (token via ?token=) ────────────────────────
	ws := router.Group("/ws/v1", requireAuth...)
	{
		ws.GET("/notifications/stream", handlers.WS.NotificationStream)
	}

	return router
}

// chain returns a fresh slice of base followed by h.
func chain(base []gin.HandlerFunc, h ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(base)+len(h))
	out = append(out, base...)
	return append(out, h...)
}
