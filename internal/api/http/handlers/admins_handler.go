package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/service"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// AdminsHandler manages back-office accounts.
type AdminsHandler struct {
	service *service.AdminService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(admins *service.AdminService) *AdminsHandler {
	return &AdminsHandler{service: admins}
}

// List GET /api/administradores.
func (h *AdminsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter := service.AdminListFilter{}
	if role := c.Query("rol"); role != "" {
		filter.Role = &role
	}
	if raw := c.Query("activo"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid activo filter", map[string]any{"field": "activo"})
		}
		filter.Active = &active
	}
	filter.Limit, filter.Offset = pagination(c)

	admins, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminList(admins)})
}

// Get GET /api/administradores/:id.
func (h *AdminsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	admin, err := h.service.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(admin)})
}

// Me GET /api/administradores/me.
func (h *AdminsHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	admin, err := h.service.Get(c.UserContext(), actor, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(admin)})
}

// Create POST /api/administradores.
func (h *AdminsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	admin, err := h.service.Create(c.UserContext(), actor, service.AdminCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adminResponse(admin)})
}

// Update PATCH /api/administradores/:id.
func (h *AdminsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	admin, err := h.service.Update(c.UserContext(), actor, id, service.AdminUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(admin)})
}

// Delete DELETE /api/administradores/:id.
func (h *AdminsHandler) Delete(c *fiber.Ctx) error {
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
