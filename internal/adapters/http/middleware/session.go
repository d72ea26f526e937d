package middleware

import (
	"freshpress-pos/internal/core/services"
	"freshpress-pos/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StoreIDKey is the context local carrying the logged-in store's id
const StoreIDKey = "storeID"

// RequireSession gates store-scoped endpoints on an active central
// session. The store id from the session profile tags every row the
// request touches.
func RequireSession(session *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := session.Profile()
		if err != nil {
			return response.Unauthorized(c, "Not logged in")
		}
		c.Locals(StoreIDKey, profile.StoreID)
		return c.Next()
	}
}

// StoreID reads the store id set by RequireSession.
func StoreID(c *fiber.Ctx) uint {
	id, _ := c.Locals(StoreIDKey).(uint)
	return id
}
