package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/service"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// CommunicationsHandler serves back-office communication endpoints.
type CommunicationsHandler struct {
	service *service.CommunicationService
}

// NewCommunicationsHandler constructs handler.
func NewCommunicationsHandler(communications *service.CommunicationService) *CommunicationsHandler {
	return &CommunicationsHandler{service: communications}
}

// List GET /api/comunicaciones.
func (h *CommunicationsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter, err := parseCommunicationQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": communicationList(page)})
}

// Get GET /api/comunicaciones/:id.
func (h *CommunicationsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": communicationDetail(detail)})
}

// Update PATCH /api/comunicaciones/:id.
func (h *CommunicationsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCommunicationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	patch := service.CommunicationPatch{
		Kind:         req.Kind,
		Description:  req.Description,
		AreaInvolved: req.AreaInvolved,
		IsPublic:     req.IsPublic,
	}
	if req.CategoryID.Set {
		patch.CategoryID = req.CategoryID.Value
		patch.ClearCategory = req.CategoryID.Value == nil
	}
	comm, err := h.service.Update(c.UserContext(), actor, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": communicationResponse(comm)})
}

// Delete DELETE /api/comunicaciones/:id.
func (h *CommunicationsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseCommunicationQuery(c *fiber.Ctx) (service.CommunicationListFilter, error) {
	filter := service.CommunicationListFilter{}
	if raw := c.Query("tipo"); raw != "" {
		kind, ok := domain.ParseCommunicationKind(raw)
		if !ok {
			return filter, apperrors.NewValidationError("invalid tipo filter", map[string]any{"field": "tipo"})
		}
		filter.Kind = &kind
	}
	if raw := c.Query("prioridad"); raw != "" {
		level, ok := domain.ParsePriorityLevel(raw)
		if !ok {
			return filter, apperrors.NewValidationError("invalid prioridad filter", map[string]any{"field": "prioridad"})
		}
		filter.Priority = &level
	}
	if raw := strings.ToUpper(strings.TrimSpace(c.Query("medio"))); raw != "" {
		channel := domain.Channel(raw)
		if !channel.Valid() {
			return filter, apperrors.NewValidationError("invalid medio filter", map[string]any{"field": "medio"})
		}
		filter.Channel = &channel
	}
	if raw := strings.TrimSpace(c.Query("search")); raw != "" {
		filter.SearchTerm = &raw
	}

	var err error
	if filter.StatusID, err = queryInt64(c, "estado"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = queryInt64(c, "categoria"); err != nil {
		return filter, err
	}
	if filter.From, err = queryDate(c, "desde"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(c, "hasta"); err != nil {
		return filter, err
	}
	filter.Limit, filter.Offset = pagination(c)
	return filter, nil
}
