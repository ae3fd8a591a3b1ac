package sync

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"staysync/core/logger"
)

// Handler handles HTTP requests that trigger reconciliation runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/healthz", h.HandleHealth)
	app.Get("/sync", h.HandleSync)
	app.Post("/sync", h.HandleSync)
}

// HandleHealth reports liveness.
// @Summary Health Check
// @Description Reports whether the service is up. Performs no external calls.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]string "Status"
// @Router /healthz [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleSync runs a full reconciliation across all properties.
// @Summary Run Reconciliation
// @Description Fetches every property's feed, converges the booking platform and mirror calendar, and publishes the availability snapshot. This operation may take a long time.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Per-property stats"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering reconciliation run")

	results := h.service.RunAll(c.Context())

	errors := 0
	for _, stats := range results {
		errors += stats.Errors
	}
	l.Info("Reconciliation run completed",
		zap.Int("properties", len(results)),
		zap.Int("errors", errors))

	return c.JSON(fiber.Map{
		"status":     "ok",
		"properties": results,
	})
}
