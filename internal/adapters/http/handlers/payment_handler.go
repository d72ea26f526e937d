package handlers

import (
	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles settlement and refund endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Pay settles an order
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}
	var req services.PayInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Method == "" {
		return response.BadRequest(c, "Payment method is required")
	}

	payment, err := h.paymentService.Pay(c.Context(), middleware.StoreID(c), uint(id), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Created(c, "Order settled", payment)
}

// RefundRequest carries the refund reason
type RefundRequest struct {
	Reason string `json:"reason"`
}

// Refund reverses a settled payment
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}
	var req RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Refund reason is required")
	}

	payment, err := h.paymentService.Refund(c.Context(), middleware.StoreID(c), uint(id), req.Reason)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Payment refunded", payment)
}

// Get returns an order's payment with its split details
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}

	payment, err := h.paymentService.Get(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", payment)
}
