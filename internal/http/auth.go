package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/barcadehq/arcade-tracker/internal/domain"
)

// requireUser loads the session and rejects anonymous requests. The user id
// and role are stashed in locals for handlers downstream.
func requireUser(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
		}
		uid, ok := sess.Get("user_id").(int64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		role, _ := sess.Get("role").(string)
		c.Locals("user_id", uid)
		c.Locals("role", role)
		return c.Next()
	}
}

// requireManager gates manager-only routes; must run after requireUser.
func requireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != string(domain.RoleManager) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "manager role required"})
		}
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) int64 {
	uid, _ := c.Locals("user_id").(int64)
	return uid
}
