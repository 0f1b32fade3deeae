package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/queue"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type ContentHandler struct {
	gs         service.GenerationService
	dispatcher queue.Dispatcher
}

func NewContentHandler(gs service.GenerationService, dispatcher queue.Dispatcher) *ContentHandler {
	return &ContentHandler{gs: gs, dispatcher: dispatcher}
}

func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	generation, err := h.gs.Create(c.UserContext(), req.Topic)
	if err != nil {
		if errors.Is(err, service.ErrMissingTopic) {
			return sendError(c, err, "Topic is required")
		}
		return sendError(c, err, "")
	}

	err = h.dispatcher.Submit(c.UserContext(), queue.GenerationTask{
		GenerationID: generation.ID,
		Topic:        generation.Topic,
	})
	if err != nil {
		if derr := h.gs.Discard(c.UserContext(), generation.ID); derr != nil {
			slog.Info(derr.Error())
		}
		if errors.Is(err, queue.ErrQueueFull) {
			return sendError(c, err, "Too many generations in progress, try again later")
		}
		return sendError(c, err, "Unable to start content generation")
	}

	return c.JSON(transfer.GenerateResponse{
		GenerationID: generation.ID,
		Status:       "started",
		Message:      "Content generation started successfully",
	})
}

func (h *ContentHandler) Status(c *fiber.Ctx) error {
	generation, err := h.gs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return sendError(c, err, "Generation ID not found")
		}
		return sendError(c, err, "")
	}
	return c.JSON(generation)
}

func (h *ContentHandler) Results(c *fiber.Ctx) error {
	results, err := h.gs.Results(c.UserContext(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return sendError(c, err, "Generation ID not found")
		case errors.Is(err, service.ErrNotCompleted):
			return sendError(c, err, "Generation not completed yet")
		}
		return sendError(c, err, "")
	}
	return c.JSON(results)
}
