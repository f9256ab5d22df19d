package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/service"
)

// TrackingHandler serves tracking record endpoints.
type TrackingHandler struct {
	tracking    *service.TrackingService
	assignments *service.AssignmentService
}

// NewTrackingHandler constructs handler.
func NewTrackingHandler(tracking *service.TrackingService, assignments *service.AssignmentService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking, assignments: assignments}
}

// ListByCommunication GET /api/comunicaciones/:id/seguimientos.
func (h *TrackingHandler) ListByCommunication(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	records, err := h.tracking.ListByCommunication(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingList(records)})
}

// Create POST /api/comunicaciones/:id/seguimientos.
func (h *TrackingHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	resolvedOn, err := optionalDate(req.ResolvedOn, string(domain.FieldResolvedOn))
	if err != nil {
		return err
	}
	rec, err := h.tracking.Create(c.UserContext(), actor, id, service.TrackingCreateInput{
		StatusID:        req.StatusID,
		AssignedAdminID: req.AssignedAdminID,
		Responsible:     req.Responsible,
		ResolvedOn:      resolvedOn,
		Notes:           req.Notes,
		Priority:        priorityFrom(req.Priority),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": trackingResponse(rec)})
}

// Get GET /api/seguimientos/:id.
func (h *TrackingHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	rec, err := h.tracking.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponse(rec)})
}

// Update PATCH /api/seguimientos/:id.
func (h *TrackingHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	resolvedOn, err := optionalDate(req.ResolvedOn, string(domain.FieldResolvedOn))
	if err != nil {
		return err
	}
	patch := domain.TrackingPatch{
		StatusID:    req.StatusID,
		Responsible: req.Responsible,
		ResolvedOn:  resolvedOn,
		Notes:       req.Notes,
		Priority:    priorityFrom(req.Priority),
	}
	if req.AssignedAdminID.Set {
		patch.AssignedAdminID = req.AssignedAdminID.Value
		patch.ClearAssignee = req.AssignedAdminID.Value == nil
	}
	rec, err := h.tracking.Update(c.UserContext(), actor, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponse(rec)})
}

// Delete DELETE /api/seguimientos/:id.
func (h *TrackingHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tracking.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign PUT /api/seguimientos/:id/asignacion.
func (h *TrackingHandler) Assign(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	rec, err := h.assignments.Assign(c.UserContext(), actor, id, req.AssignedAdminID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trackingResponse(rec)})
}

// Assignable GET /api/asignables.
func (h *TrackingHandler) Assignable(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	admins, err := h.assignments.Assignable(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminList(admins)})
}
