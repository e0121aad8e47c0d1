package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/database"
	"github.com/studylite/studylite-backend/internal/export"
	"github.com/studylite/studylite-backend/internal/handler"
	"github.com/studylite/studylite-backend/internal/logger"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/repository"
	"github.com/studylite/studylite-backend/internal/router"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/session"
	"github.com/studylite/studylite-backend/internal/validator"
	"github.com/studylite/studylite-backend/internal/view"
	"github.com/studylite/studylite-backend/internal/worker"
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
		Str("content_source", cfg.ContentSource).
		Str("session_store", cfg.SessionStore).
		Msg("Starting StudyLite Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Content Source ────────────────────────────────────────────────
	var source repository.ContentSource
	switch cfg.ContentSource {
	case config.ContentSourceHTTP:
		if cfg.ContentBaseURL == "" {
			log.Fatal().Msg("CONTENT_BASE_URL is required for the http content source")
		}
		source = repository.NewHTTPSource(cfg.ContentBaseURL, nil)
	case config.ContentSourcePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		source = repository.NewPostgresSource(pool)
	default:
		source = repository.NewFileSource(cfg.ContentDir)
	}

	// ─── Session Store ─────────────────────────────────────────────────
	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
	default:
		mem := session.NewMemoryStore(cfg.SessionTTL)
		go worker.NewSessionSweeper(mem, worker.DefaultSweepInterval, log).Start(ctx)
		store = mem
	}

	// ─── Templates ─────────────────────────────────────────────────────
	tmpl, err := view.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	engine := quiz.NewEngine(nil)
	catalogService := service.NewCatalogService(config.Subjects, service.NewPagesFS(cfg.PagesDir), cfg.Payment, log)
	contentService := service.NewContentService(catalogService, source, engine, log)
	noteService := service.NewNoteService(contentService, export.Resolve(cfg.PDFFontPath, log), log)
	quizService := service.NewQuizService(contentService, engine, cfg.QuizDefaultCount, log)
	solutionService := service.NewSolutionService(contentService)
	promptService := service.NewPromptService()

	// ─── Start Background Workers ─────────────────────────────────────
	go worker.NewContentAuditWorker(catalogService, contentService, cfg.ContentAuditInterval, log).Start(ctx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Page: handler.NewPageHandler(handler.PageServices{
			Catalog:   catalogService,
			Content:   contentService,
			Notes:     noteService,
			Quizzes:   quizService,
			Solutions: solutionService,
			Prompts:   promptService,
		}, log),
		Subject:  handler.NewSubjectHandler(catalogService, contentService, promptService, log),
		Note:     handler.NewNoteHandler(contentService, noteService, log),
		Quiz:     handler.NewQuizHandler(quizService, log),
		Solution: handler.NewSolutionHandler(solutionService, log),
		WS:       handler.NewWSHandler(catalogService, quizService, store, log, cfg.AllowedOrigins),
	}

	// Rate limiter for PDF export (10 requests per minute per session).
	exportLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer exportLimiter.Stop()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, router.Deps{
		Templates: tmpl,
		Session: middleware.SessionConfig{
			Store:  store,
			Signer: session.NewSigner(cfg.SessionSecret),
			Secure: cfg.GinMode == "release",
			Log:    log,
		},
		ExportLimiter: exportLimiter,
		StaticDir:     "./web/static",
		Log:           log,
	}, cfg)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop background workers.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
