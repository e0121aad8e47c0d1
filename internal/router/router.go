package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/handler"
	"github.com/studylite/studylite-backend/internal/logger"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Page     *handler.PageHandler
	Subject  *handler.SubjectHandler
	Note     *handler.NoteHandler
	Quiz     *handler.QuizHandler
	Solution *handler.SolutionHandler
	WS       *handler.WSHandler
}

// Deps are the non-handler pieces the router wires in.
type Deps struct {
	Templates     *template.Template
	Session       middleware.SessionConfig
	ExportLimiter *middleware.RateLimiter
	StaticDir     string
	Log           zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, deps Deps, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(deps.Templates)

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.Requests(deps.Log))

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Static assets and dedicated subject pages, cached for a day.
	static := router.Group("/static")
	static.Use(middleware.CacheControl(86400))
	{
		static.Static("/", deps.StaticDir)
	}
	if cfg.PagesDir != "" {
		pages := router.Group("/pages")
		pages.Use(middleware.CacheControl(86400))
		{
			pages.Static("/", cfg.PagesDir)
		}
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := middleware.Session(deps.Session)
	exportLimit := deps.ExportLimiter.Middleware()

	// ─── 1. HTML Site ──────────────────────────────────────────────────
	site := router.Group("/")
	site.Use(sessions, middleware.NoStore())
	{
		site.GET("/", handlers.Page.Home)
		site.POST("/popup/dismiss", handlers.Page.DismissPopup)
		site.GET("/open/:code", handlers.Page.Open)
		site.GET("/quick/:code", handlers.Page.QuickQuiz)

		site.GET("/subjects/:code", handlers.Page.Subject)
		site.GET("/subjects/:code/notes/:id", handlers.Page.OpenNote)
		site.POST("/subjects/:code/notes/:id/close", handlers.Page.CloseNote)
		site.GET("/subjects/:code/notes/:id/pdf", exportLimit, handlers.Page.ExportNote)
		site.GET("/subjects/:code/solutions/:id", handlers.Page.Solution)
		site.GET("/subjects/:code/solutions/:id/print", handlers.Page.PrintSolution)

		site.POST("/subjects/:code/quiz", handlers.Page.StartQuiz)
		site.GET("/quiz", handlers.Page.CurrentQuiz)
		site.POST("/quiz/submit", handlers.Page.SubmitQuiz)
		site.POST("/quiz/retry", handlers.Page.RetryQuiz)
		site.POST("/quiz/cancel", handlers.Page.CancelQuiz)
		site.POST("/quiz/done", handlers.Page.DoneQuiz)
	}

	// ─── 2. JSON API ───────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(sessions)
	{
		api.GET("/subjects", handlers.Subject.List)
		api.GET("/subjects/:code", handlers.Subject.Get)
		api.GET("/subjects/:code/notes", handlers.Note.List)
		api.GET("/subjects/:code/notes/:id", handlers.Note.Get)
		api.GET("/subjects/:code/questions/:id/solution", handlers.Solution.Get)
		api.POST("/subjects/:code/quiz", handlers.Quiz.Start)

		api.DELETE("/notes/open", handlers.Note.Close)
		api.GET("/notes/open/pdf", exportLimit, handlers.Note.Export)

		api.GET("/quiz", handlers.Quiz.Current)
		api.POST("/quiz/submit", handlers.Quiz.Submit)
		api.POST("/quiz/retry", handlers.Quiz.Retry)
		api.POST("/quiz/cancel", handlers.Quiz.Cancel)
		api.POST("/quiz/done", handlers.Quiz.Dismiss)

		api.GET("/payment", handlers.Subject.Payment)
		api.GET("/popup", handlers.Subject.Popup)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(sessions)
	{
		wsGroup.GET("/subjects/:code/quiz", handlers.WS.QuizStream)
	}

	return router
}
