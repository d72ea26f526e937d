package handlers

import (
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PrinterHandler handles receipt printer endpoints
type PrinterHandler struct {
	printerService *services.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *services.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Get returns the selected printer name
func (h *PrinterHandler) Get(c *fiber.Ctx) error {
	return response.Success(c, "", fiber.Map{"printer": h.printerService.Printer()})
}

// SetPrinterRequest names the system printer to use
type SetPrinterRequest struct {
	Name string `json:"name"`
}

// Set selects the system printer receipts go to
func (h *PrinterHandler) Set(c *fiber.Ctx) error {
	var req SetPrinterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Printer name is required")
	}
	h.printerService.SetPrinter(req.Name)
	return response.Success(c, "Printer selected", nil)
}

// PrintRequest names the prepared receipt file to print
type PrintRequest struct {
	Path string `json:"path"`
}

// Print sends a receipt file to the selected printer
func (h *PrinterHandler) Print(c *fiber.Ctx) error {
	var req PrintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Path == "" {
		return response.BadRequest(c, "Receipt file path is required")
	}

	if err := h.printerService.Print(req.Path); err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Receipt printed", nil)
}
