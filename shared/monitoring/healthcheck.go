package monitoring

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type HealthServer struct {
	monitor *Monitor
	port    string
	app     *fiber.App
}

func NewHealthServer(monitor *Monitor, port string) *HealthServer {
	if port == "" {
		port = "8080"
	}

	h := &HealthServer{
		monitor: monitor,
		port:    port,
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
	}

	h.app.Use(recover.New())
	h.app.Get("/health", h.healthHandler)
	h.app.Get("/status", h.statusHandler)

	return h
}

// Start serves in the background until Shutdown
func (h *HealthServer) Start() {
	log.Printf("Health check server starting on port %s", h.port)
	go func() {
		if err := h.app.Listen(":" + h.port); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()
}

func (h *HealthServer) Shutdown() error {
	return h.app.Shutdown()
}

func (h *HealthServer) healthHandler(c *fiber.Ctx) error {
	if h.monitor.IsHealthy() {
		return c.Status(fiber.StatusOK).SendString("OK - " + h.monitor.GetStatusSummary())
	}
	return c.Status(fiber.StatusServiceUnavailable).SendString("Service unhealthy - " + h.monitor.GetStatusSummary())
}

func (h *HealthServer) statusHandler(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(h.monitor.GetStatusSummary())
}
