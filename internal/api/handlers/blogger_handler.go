package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type BloggerHandler struct {
	bs service.BloggerService
}

func NewBloggerHandler(bs service.BloggerService) *BloggerHandler {
	return &BloggerHandler{bs: bs}
}

func (h *BloggerHandler) Authorize(c *fiber.Ctx) error {
	authURL, err := h.bs.BeginAuthorization(c.UserContext(), GetSessionID(c))
	if err != nil {
		return sendError(c, err, "Unable to start authorization")
	}
	return c.JSON(transfer.AuthorizationResponse{AuthorizationURL: authURL})
}

func (h *BloggerHandler) OAuthCallback(c *fiber.Ctx) error {
	if denied := c.Query("error"); denied != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Authorization denied: " + denied,
		})
	}

	_, err := h.bs.CompleteAuthorization(c.UserContext(), GetSessionID(c), c.Query("state"), c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStateMismatch):
			return sendError(c, err, "State mismatch")
		case errors.Is(err, service.ErrMissingCode):
			return sendError(c, err, "Missing authorization code")
		case errors.Is(err, service.ErrTokenExchange):
			return sendError(c, err, "Failed to exchange authorization code")
		}
		return sendError(c, err, "")
	}

	return c.JSON(fiber.Map{
		"message": "Authorization successful!",
	})
}

func (h *BloggerHandler) Publish(c *fiber.Ctx) error {
	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	post, err := h.bs.Publish(c.UserContext(), GetSessionID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return sendError(c, err, "User not authenticated")
		case errors.Is(err, service.ErrMissingFields):
			return sendError(c, err, "Missing required fields")
		}
		return sendError(c, err, "")
	}

	return c.JSON(post)
}

func (h *BloggerHandler) History(c *fiber.Ctx) error {
	entries, err := h.bs.History(c.UserContext(), GetSessionID(c))
	if err != nil {
		return sendError(c, err, "Unable to load posting history")
	}
	return c.JSON(entries)
}
