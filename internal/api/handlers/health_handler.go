package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type HealthHandler struct {
	serviceName string
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(transfer.HealthResponse{
		Status:    "healthy",
		Service:   h.serviceName,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
