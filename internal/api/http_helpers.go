package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/momonala/ios-health-dump/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// dumpError matches the response shape the iOS shortcut checks.
func dumpError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message})
}

// parseDateParam validates an ISO calendar date query value, resolving
// the literal "today" against the reference timezone. Empty input stays
// empty.
func (handler *Handler) parseDateParam(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", true
	}
	if strings.EqualFold(trimmed, "today") {
		return services.DateKey(handler.now(), handler.location), true
	}
	if _, ok := services.ParseDate(trimmed, handler.location); !ok {
		return "", false
	}
	return trimmed, true
}
