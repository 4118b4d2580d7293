package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/", handler.ShowDashboard)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/status", handler.Status)

	app.Post("/dump", handler.SaveDump)

	healthData := app.Group("/api/health-data")
	healthData.Get("", handler.GetHealthData)
	healthData.Get("/grouped", handler.GetGroupedHealthData)
	healthData.Get("/stats", handler.GetHealthDataStats)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
