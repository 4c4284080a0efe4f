package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-bridge/internal/api/dto"
	"github.com/spec-kit/moderation-bridge/internal/service"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// PhrasesHandler manages phrase subscriptions.
type PhrasesHandler struct {
	links *service.LinkService
}

// NewPhrasesHandler returns a new handler instance.
func NewPhrasesHandler(links *service.LinkService) *PhrasesHandler {
	return &PhrasesHandler{links: links}
}

// Create registers a subscription.
func (h *PhrasesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePhraseRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid request body", nil)
	}

	sub, err := h.links.CreatePhrase(c.UserContext(), req.Owner, req.Phrase)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPhraseResponse(*sub))
}

// Delete removes a subscription.
func (h *PhrasesHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return util.NewValidationError("invalid subscription id", nil)
	}
	if err := h.links.DeletePhrase(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List lists all subscriptions.
func (h *PhrasesHandler) List(c *fiber.Ctx) error {
	subs, err := h.links.ListPhrases(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.PhraseResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, dto.NewPhraseResponse(sub))
	}
	return c.JSON(resp)
}
