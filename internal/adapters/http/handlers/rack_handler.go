package handlers

import (
	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RackHandler handles rack management endpoints
type RackHandler struct {
	rackService *services.RackService
}

// NewRackHandler creates a new rack handler
func NewRackHandler(rackService *services.RackService) *RackHandler {
	return &RackHandler{rackService: rackService}
}

// List returns the store's racks
func (h *RackHandler) List(c *fiber.Ctx) error {
	racks, err := h.rackService.List(c.Context(), middleware.StoreID(c))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", racks)
}

// Create registers a rack
func (h *RackHandler) Create(c *fiber.Ctx) error {
	var req services.CreateRackInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Type == "" {
		return response.BadRequest(c, "Name and type are required")
	}

	rack, err := h.rackService.Create(c.Context(), middleware.StoreID(c), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Created(c, "Rack created", rack)
}

// Release frees one slot on a rack
func (h *RackHandler) Release(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid rack id")
	}

	if err := h.rackService.Release(c.Context(), middleware.StoreID(c), uint(id)); err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Slot released", nil)
}
