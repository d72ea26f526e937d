package handlers

import (
	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles coupon template and card endpoints
type CouponHandler struct {
	couponService *services.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// CreateTemplate registers a coupon template
func (h *CouponHandler) CreateTemplate(c *fiber.Ctx) error {
	var req services.TemplateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Type == "" {
		return response.BadRequest(c, "Type is required")
	}

	coupon, err := h.couponService.CreateTemplate(c.Context(), middleware.StoreID(c), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Created(c, "Coupon template created", coupon)
}

// ListTemplates returns the store's active templates
func (h *CouponHandler) ListTemplates(c *fiber.Ctx) error {
	coupons, err := h.couponService.ListTemplates(c.Context(), middleware.StoreID(c))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", coupons)
}

// GrantRequest names the customer and template for a grant or purchase
type GrantRequest struct {
	CustomerID uint `json:"customer_id"`
	CouponID   uint `json:"coupon_id"`
}

// Grant gifts a card to a customer
func (h *CouponHandler) Grant(c *fiber.Ctx) error {
	return h.grant(c, false)
}

// Purchase sells a card to a customer, enforcing the purchase cap
func (h *CouponHandler) Purchase(c *fiber.Ctx) error {
	return h.grant(c, true)
}

func (h *CouponHandler) grant(c *fiber.Ctx, purchased bool) error {
	var req GrantRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CustomerID == 0 || req.CouponID == 0 {
		return response.BadRequest(c, "Customer and coupon are required")
	}

	uc, err := h.couponService.Grant(c.Context(), middleware.StoreID(c), req.CustomerID, req.CouponID, purchased)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Created(c, "Coupon granted", uc)
}
