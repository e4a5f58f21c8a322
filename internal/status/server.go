package status

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/store"
)

// LogSource provides the buffered log lines served by the logs endpoint.
type LogSource interface {
	GetLogs() []string
}

// Server is the monitoring HTTP server that runs alongside a scrape.
type Server struct {
	app  *fiber.App
	addr string
}

// NewServer wires the monitoring routes. history may be nil when run
// history is disabled.
func NewServer(cfg *config.Config, tracker *Tracker, results *store.ResultStore, history *store.HistoryDB, logs LogSource) *Server {
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	eventsHandler := NewEventsHandler(tracker)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Get("/progress", func(c *fiber.Ctx) error {
		return c.JSON(tracker.Snapshot())
	})

	app.Get("/results", func(c *fiber.Ctx) error {
		return c.JSON(results.All())
	})

	// Past runs
	app.Get("/history", func(c *fiber.Ctx) error {
		if history == nil {
			return c.Status(503).JSON(fiber.Map{"error": "Run history is disabled"})
		}
		limit := 50 // Default limit
		runs, err := history.ListRuns(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(runs)
	})

	// Per-URL attempts for one run
	app.Get("/history/:id/attempts", func(c *fiber.Ctx) error {
		if history == nil {
			return c.Status(503).JSON(fiber.Map{"error": "Run history is disabled"})
		}
		runID := c.Params("id")
		attempts, err := history.ListAttempts(runID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(attempts)
	})

	// Get scraper logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logs.GetLogs(),
		})
	})

	// WebSocket route
	app.Get("/ws/events", websocket.New(eventsHandler.Handle))

	return &Server{
		app:  app,
		addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("🚀 Monitoring server starting on %s", s.addr)
	log.Println("📝 Endpoints:")
	log.Println("   GET /health               - Health check")
	log.Println("   GET /progress             - Current run progress")
	log.Println("   GET /results              - Extracted sections per URL")
	log.Println("   GET /history              - Past runs")
	log.Println("   GET /history/:id/attempts - Attempts for one run")
	log.Println("   GET /logs                 - View scraper logs")
	log.Println("   GET /ws/events            - WebSocket progress events")

	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
