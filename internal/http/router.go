package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/llm"
	"newsdesk/internal/metrics"
	"newsdesk/internal/naver"
)

type Server struct {
	app    *fiber.App
	config *config.Config
	logger *slog.Logger
}

func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	return newServer(cfg, logger, llm.NewRouter(cfg), naver.NewClient(cfg), cache.NewNews(cfg))
}

// newServer wires explicit collaborators; tests pass fakes here.
func newServer(cfg *config.Config, logger *slog.Logger, completer llm.Completer, news NewsFetcher, newsCache *cache.News) *Server {
	app := fiber.New()

	// Inject config and services into context for handlers
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("completer", completer)
		c.Locals("news", news)
		c.Locals("newsCache", newsCache)
		return c.Next()
	})

	// Request logging + metrics middleware
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		// Ensure a request ID exists
		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals("request_id", reqID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Path()

		metrics.RecordRequest(method, path, status, latency.Milliseconds())

		if logger != nil {
			attrs := []any{
				"request_id", reqID,
				"method", method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			}
			if provVal := c.Locals("llm_provider"); provVal != nil {
				attrs = append(attrs, "llm_provider", provVal)
			}
			if modelVal := c.Locals("llm_model"); modelVal != nil {
				attrs = append(attrs, "llm_model", modelVal)
			}
			logger.Info("request", attrs...)
		}

		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Prometheus-style metrics endpoint
	app.Get("/metrics", func(c *fiber.Ctx) error {
		c.Type("text/plain")
		return c.SendString(metrics.Export())
	})

	api := app.Group("/api")
	api.Get("/naver-news", newsListHandler)
	api.Get("/naver-ranking", newsRankingHandler)
	api.Post("/news-content", articleHandler)
	api.Post("/naver-article", articleHandler)

	ai := api.Group("/ai")
	ai.Post("/check-key", checkKeyHandler)
	ai.Post("/script-transform", scriptTransformHandler)
	ai.Post("/script-new", scriptNewHandler)
	ai.Post("/structure", structureHandler)
	ai.Post("/summary", summaryHandler)
	ai.Post("/titles", titlesHandler)
	ai.Post("/thumbnail-copies", thumbnailCopiesHandler)

	return &Server{
		app:    app,
		config: cfg,
		logger: logger,
	}
}

func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	return s.app.Listen(addr)
}
