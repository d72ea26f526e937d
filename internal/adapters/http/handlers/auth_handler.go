package handlers

import (
	"strings"

	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login, logout and captcha endpoints
type AuthHandler struct {
	sessionService *services.SessionService
	captchaService *services.CaptchaService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessionService *services.SessionService, captchaService *services.CaptchaService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		captchaService: captchaService,
	}
}

// NewCaptcha issues a captcha challenge for the login form
func (h *AuthHandler) NewCaptcha(c *fiber.Ctx) error {
	id, code, err := h.captchaService.Issue()
	if err != nil {
		return response.FromDomainError(c, err)
	}
	// The desktop client renders the code itself; there is no image
	// endpoint on the local API.
	return response.Success(c, "Captcha issued", fiber.Map{
		"captcha_id":   id,
		"captcha_code": code,
	})
}

// Login authenticates the store account against the central server
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Account == "" {
		return response.BadRequest(c, "Account is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	req.Account = strings.TrimSpace(req.Account)

	tok, err := h.sessionService.Login(c.Context(), req)
	if err != nil {
		return response.FromDomainError(c, err)
	}

	return response.Success(c, "Logged in", fiber.Map{
		"expires_at": tok.ExpiresAt,
		"profile":    tok.Profile,
	})
}

// Logout drops the session and stops the token refresher
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessionService.Logout()
	return response.Success(c, "Logged out", nil)
}

// Profile returns the logged-in store profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.sessionService.Profile()
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", profile)
}
