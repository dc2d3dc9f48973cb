package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resumerank/internal/config"
	"resumerank/internal/handlers"
	"resumerank/internal/logger"
	"resumerank/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("✅ Config loaded successfully")

	// Initialize Gemini AI. The credential is read once here; absence is
	// a startup fault, not a per-request one.
	generator, err := services.NewGeminiService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	zlog.Info("✅ Gemini AI initialized successfully", zap.String("model", cfg.Gemini.Model))

	// Initialize services
	extractor := services.NewDocumentExtractor(cfg.Limits.MaxFileSize, zlog)
	criteria := services.NewCriteriaExtractor(generator, cfg.Gemini.RequestTimeout, zlog)
	scorer := services.NewResumeScorer(generator, cfg.Gemini.RequestTimeout, zlog)
	shortener := services.NewLabelShortener(generator, cfg.Gemini.RequestTimeout, zlog)
	ranker := services.NewRankingOrchestrator(extractor, scorer, zlog)
	report := services.NewReportBuilder(shortener, zlog)
	zlog.Info("✅ Services initialized successfully")

	// Initialize handlers
	criteriaHandler := handlers.NewCriteriaHandler(extractor, criteria, zlog)
	rankHandler := handlers.NewRankHandler(ranker, report, cfg.Limits.MaxResumes, zlog)

	// Create Fiber app. The body limit leaves room for a full batch of
	// resumes; the per-file size cap is enforced by the extractor.
	app := fiber.New(fiber.Config{
		AppName:      "Resume Ranking System API",
		ReadTimeout:  time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    int(cfg.Limits.MaxFileSize) * (cfg.Limits.MaxResumes + 1),
		ErrorHandler: handlers.NewErrorHandler(zlog),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/extract-criteria", criteriaHandler.HandleExtractCriteria)
	api.Post("/rank-resumes", rankHandler.HandleRankResumes)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Ranking System API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/extract-criteria",
				"POST /api/rank-resumes",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			zlog.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
