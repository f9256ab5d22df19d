package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmht/buzon-service/internal/api/dto"
	"github.com/fmht/buzon-service/internal/service"
)

// CatalogHandler serves status and category endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalog}
}

// ListStatuses GET /api/estados.
func (h *CatalogHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statuses})
}

// CreateStatus POST /api/estados.
func (h *CatalogHandler) CreateStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	status, err := h.service.CreateStatus(c.UserContext(), actor, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": status})
}

// UpdateStatus PUT /api/estados/:id.
func (h *CatalogHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	status, err := h.service.UpdateStatus(c.UserContext(), actor, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}

// DeleteStatus DELETE /api/estados/:id.
func (h *CatalogHandler) DeleteStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteStatus(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListCategories GET /api/categorias. Also mounted publicly for the intake form.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// CreateCategory POST /api/categorias.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	category, err := h.service.CreateCategory(c.UserContext(), actor, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": category})
}

// UpdateCategory PUT /api/categorias/:id.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	category, err := h.service.UpdateCategory(c.UserContext(), actor, id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": category})
}

// DeleteCategory DELETE /api/categorias/:id.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCategory(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
