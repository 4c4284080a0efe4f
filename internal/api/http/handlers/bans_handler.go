package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-bridge/internal/api/dto"
	"github.com/spec-kit/moderation-bridge/internal/service"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// BansHandler manages scheduled unbans.
type BansHandler struct {
	links *service.LinkService
}

// NewBansHandler returns a new handler instance.
func NewBansHandler(links *service.LinkService) *BansHandler {
	return &BansHandler{links: links}
}

// Schedule records an automatic unban.
func (h *BansHandler) Schedule(c *fiber.Ctx) error {
	var req dto.ScheduleUnbanRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid request body", nil)
	}

	if err := h.links.ScheduleUnban(c.UserContext(), req.ContentID, req.ExpiresAt); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BanRecordResponse{
		ContentID: req.ContentID,
		ExpiresAt: req.ExpiresAt,
	})
}

// Cancel removes a scheduled unban, e.g. after a manual unban.
func (h *BansHandler) Cancel(c *fiber.Ctx) error {
	contentID, err := strconv.ParseInt(c.Params("contentId"), 10, 64)
	if err != nil {
		return util.NewValidationError("invalid content id", nil)
	}
	if err := h.links.CancelUnban(c.UserContext(), contentID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List lists all pending records.
func (h *BansHandler) List(c *fiber.Ctx) error {
	records, err := h.links.ListScheduledUnbans(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.BanRecordResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, dto.NewBanRecordResponse(record))
	}
	return c.JSON(resp)
}
