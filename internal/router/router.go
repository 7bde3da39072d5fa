package router

import (
	"net/http"
	"time"

	"github.com/conceptdelta/examdesk/internal/config"
	"github.com/conceptdelta/examdesk/internal/handler"
	"github.com/conceptdelta/examdesk/internal/middleware"
	"github.com/conceptdelta/examdesk/internal/response"
	"github.com/conceptdelta/examdesk/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Portal  *handler.PortalHandler
	Attempt *handler.AttemptHandler
	Admin   *handler.AdminHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
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
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally; it skips WebSocket upgrades itself.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Portal Group (JWT + Single Device) ─────────────────────────
	portalAPI := router.Group("/api/v1")
	portalAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		portalAPI.GET("/profile", handlers.Profile.GetProfile)
		portalAPI.PUT("/profile", handlers.Profile.SaveProfile)
		portalAPI.GET("/profile/gates", handlers.Profile.GetGates)

		portalAPI.GET("/portal/tests", handlers.Portal.ListTests)
		portalAPI.GET("/portal/tests/:id", handlers.Portal.GetTest)
		portalAPI.GET("/portal/results", handlers.Portal.ListMyResults)

		portalAPI.POST("/attempt", handlers.Attempt.Start)
		portalAPI.GET("/attempt", handlers.Attempt.State)
		portalAPI.PUT("/attempt/answer", handlers.Attempt.SelectAnswer)
		portalAPI.PUT("/attempt/cursor", handlers.Attempt.Navigate)
		portalAPI.POST("/attempt/submit", handlers.Attempt.Submit)
		portalAPI.DELETE("/attempt", handlers.Attempt.Abandon)
	}

	// ─── 3. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/attempt/stream", handlers.WS.AttemptStream)
	}

	// ─── 4. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireAdmin(),
	)
	{
		// Question curation
		adminAPI.GET("/questions", handlers.Admin.ListQuestions)
		adminAPI.POST("/questions", handlers.Admin.CreateQuestion)
		adminAPI.PUT("/questions/:id", handlers.Admin.UpdateQuestion)
		adminAPI.DELETE("/questions/:id", handlers.Admin.DeleteQuestion)

		// Test curation
		adminAPI.GET("/tests", handlers.Admin.ListTests)
		adminAPI.POST("/tests", handlers.Admin.CreateTest)
		adminAPI.PUT("/tests/:id", handlers.Admin.UpdateTest)
		adminAPI.DELETE("/tests/:id", handlers.Admin.DeleteTest)
		adminAPI.POST("/tests/:id/publish", handlers.Admin.TogglePublish)

		// Accounts and results
		adminAPI.GET("/users", handlers.Admin.ListUsers)
		adminAPI.GET("/results", handlers.Admin.ListResults)

		// One-shot visit flag
		adminAPI.GET("/visit", handlers.Admin.GetVisit)
		adminAPI.POST("/visit", handlers.Admin.MarkVisit)
	}

	return router
}
