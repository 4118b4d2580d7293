package api

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	goalsJSON, err := json.Marshal(handler.goals)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to encode goals")
	}

	buffer := bytes.Buffer{}
	if err := handler.indexTemplate.Execute(&buffer, map[string]any{
		"Goals": template.JS(goalsJSON),
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render dashboard")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buffer.Bytes())
}
