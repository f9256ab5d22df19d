package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/service"
)

// EvidenceHandler serves evidence listing and download to authenticated roles.
type EvidenceHandler struct {
	service *service.EvidenceService
}

// NewEvidenceHandler constructs handler.
func NewEvidenceHandler(evidence *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{service: evidence}
}

// List GET /api/comunicaciones/:id/evidencias.
func (h *EvidenceHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.service.List(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": evidenceList(items)})
}

// Download GET /api/evidencias/:id/archivo.
func (h *EvidenceHandler) Download(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ev, body, err := h.service.Open(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	c.Attachment(ev.OriginalName)
	c.Set(fiber.HeaderContentType, ev.MIMEType)
	return c.SendStream(body, int(ev.SizeBytes))
}
