package handlers

import (
	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/pagination"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles intake, garment lifecycle and pickup endpoints
type OrderHandler struct {
	orderService *services.OrderService
	smsService   *services.SMSService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, smsService *services.SMSService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		smsService:   smsService,
	}
}

// Intake books a new order
func (h *OrderHandler) Intake(c *fiber.Ctx) error {
	var req services.IntakeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CustomerID == 0 {
		return response.BadRequest(c, "Customer is required")
	}
	if len(req.Garments) == 0 {
		return response.BadRequest(c, "At least one garment is required")
	}
	for _, g := range req.Garments {
		if g.ItemID == 0 || g.ServiceType == "" || g.RackType == "" {
			return response.BadRequest(c, "Each garment needs an item, a service type and a rack type")
		}
	}

	order, err := h.orderService.Intake(c.Context(), middleware.StoreID(c), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Created(c, "Order created", order)
}

// Get returns one order with its garments and pricing attachments
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}

	order, err := h.orderService.Get(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", order)
}

// List returns a page of orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	orders, total, err := h.orderService.List(c.Context(), middleware.StoreID(c), status, params)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", pagination.NewResponse(orders, params, total))
}

// Quote returns the current payable total of an order
func (h *OrderHandler) Quote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}

	total, err := h.orderService.Quote(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", fiber.Map{"total": total})
}

// SetAdjustment creates or replaces the order's manual price correction
func (h *OrderHandler) SetAdjustment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}
	var req services.AdjustmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.orderService.SetAdjustment(c.Context(), middleware.StoreID(c), uint(id), req); err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Adjustment saved", nil)
}

// AttachPriceTagRequest names the price tag to attach
type AttachPriceTagRequest struct {
	PriceTagID uint `json:"price_tag_id"`
}

// AttachPriceTag appends a price-tag rule to an order
func (h *OrderHandler) AttachPriceTag(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}
	var req AttachPriceTagRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PriceTagID == 0 {
		return response.BadRequest(c, "Price tag is required")
	}

	if err := h.orderService.AttachPriceTag(c.Context(), middleware.StoreID(c), uint(id), req.PriceTagID); err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Price tag attached", nil)
}

// MarkGarmentReady flips a garment to ready-for-pickup
func (h *OrderHandler) MarkGarmentReady(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid garment id")
	}

	order, err := h.orderService.MarkGarmentReady(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Garment marked ready", order)
}

// PickupRequest carries the customer's pickup code
type PickupRequest struct {
	PickupCode string `json:"pickup_code"`
}

// Pickup completes an order by pickup code
func (h *OrderHandler) Pickup(c *fiber.Ctx) error {
	var req PickupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PickupCode == "" {
		return response.BadRequest(c, "Pickup code is required")
	}

	order, err := h.orderService.Pickup(c.Context(), middleware.StoreID(c), req.PickupCode)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Order picked up", order)
}

// Notices returns the SMS history of an order
func (h *OrderHandler) Notices(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}

	records, err := h.smsService.History(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", records)
}
