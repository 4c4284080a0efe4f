package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/moderation-bridge/internal/api/dto"
	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/service"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// LinksHandler manages account links and alt lookups.
type LinksHandler struct {
	links *service.LinkService
}

// NewLinksHandler returns a new handler instance.
func NewLinksHandler(links *service.LinkService) *LinksHandler {
	return &LinksHandler{links: links}
}

// Create persists a new link.
func (h *LinksHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid request body", nil)
	}

	link, err := h.links.CreateLink(c.UserContext(), req.ContentID, req.ChatID, req.ChatUsername)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLinkResponse(*link))
}

// Delete removes a link.
func (h *LinksHandler) Delete(c *fiber.Ctx) error {
	contentID, err := strconv.ParseInt(c.Params("contentId"), 10, 64)
	if err != nil {
		return util.NewValidationError("invalid content id", nil)
	}
	chatID := c.Params("chatId")

	if err := h.links.RemoveLink(c.UserContext(), contentID, chatID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListForChat lists links of one chat account.
func (h *LinksHandler) ListForChat(c *fiber.Ctx) error {
	links, err := h.links.ListLinks(c.UserContext(), c.Params("chatId"))
	if err != nil {
		return err
	}
	resp := make([]dto.LinkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, dto.NewLinkResponse(link))
	}
	return c.JSON(resp)
}

// AltTree resolves the annotated alt tree around a seed account. The seed
// space is chosen by query parameter; content seeds must be numeric.
func (h *LinksHandler) AltTree(c *fiber.Ctx) error {
	seed, err := parseSeed(c)
	if err != nil {
		return err
	}

	tree, err := h.links.AltTree(c.UserContext(), seed)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAltNodeResponse(tree))
}

// AltContentIDs returns the flattened content-id closure around a seed.
func (h *LinksHandler) AltContentIDs(c *fiber.Ctx) error {
	ids, err := h.links.AltContentIDs(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []int64{}
	}
	return c.JSON(fiber.Map{"content_ids": ids})
}

func parseSeed(c *fiber.Ctx) (domain.AccountRef, error) {
	id := c.Params("id")
	switch c.Query("space", string(domain.SpaceChat)) {
	case string(domain.SpaceChat):
		return domain.ChatRef(id), nil
	case string(domain.SpaceContent):
		contentID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return domain.AccountRef{}, util.NewValidationError("content seed must be numeric", nil)
		}
		return domain.ContentRef(contentID), nil
	default:
		return domain.AccountRef{}, util.NewValidationError("unknown space", nil)
	}
}
