package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/service"
)

// SubmittersHandler exposes citizen records.
type SubmittersHandler struct {
	service *service.SubmitterService
}

// NewSubmittersHandler constructs handler.
func NewSubmittersHandler(submitters *service.SubmitterService) *SubmittersHandler {
	return &SubmittersHandler{service: submitters}
}

// List GET /api/ciudadanos.
func (h *SubmittersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var search *string
	if raw := strings.TrimSpace(c.Query("search")); raw != "" {
		search = &raw
	}
	limit, offset := pagination(c)
	items, err := h.service.List(c.UserContext(), actor, search, limit, offset)
	if err != nil {
		return err
	}
	out := make([]dto.SubmitterResponse, 0, len(items))
	for i := range items {
		out = append(out, submitterResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /api/ciudadanos/:id.
func (h *SubmittersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	submitter, err := h.service.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submitterResponse(submitter)})
}
