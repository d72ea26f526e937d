package handlers

import (
	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/pagination"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer book endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
	couponService   *services.CouponService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService, couponService *services.CouponService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		couponService:   couponService,
	}
}

// Create registers a customer
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req services.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	customer, err := h.customerService.Create(c.Context(), middleware.StoreID(c), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Created(c, "Customer created", customer)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid customer id")
	}

	customer, err := h.customerService.Get(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", customer)
}

// Update edits a customer profile
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid customer id")
	}
	var req services.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	customer, err := h.customerService.Update(c.Context(), middleware.StoreID(c), uint(id), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Customer updated", customer)
}

// SetPayPasswordRequest carries a new card payment password
type SetPayPasswordRequest struct {
	PayPassword string `json:"pay_password"`
}

// SetPayPassword sets the customer's card payment password
func (h *CustomerHandler) SetPayPassword(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid customer id")
	}
	var req SetPayPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PayPassword == "" {
		return response.BadRequest(c, "Payment password is required")
	}

	if err := h.customerService.SetPayPassword(c.Context(), middleware.StoreID(c), uint(id), req.PayPassword); err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Payment password set", nil)
}

// List returns a page of customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	query := c.Query("q")

	customers, total, err := h.customerService.List(c.Context(), middleware.StoreID(c), query, params)
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", pagination.NewResponse(customers, params, total))
}

// Coupons returns the cards a customer holds
func (h *CustomerHandler) Coupons(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid customer id")
	}

	coupons, err := h.couponService.ListByCustomer(c.Context(), middleware.StoreID(c), uint(id))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", coupons)
}
