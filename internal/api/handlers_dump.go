package api

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/momonala/ios-health-dump/internal/services"
)

// SaveDump ingests a health dump posted by the iOS automation client and
// upserts it as today's record.
func (handler *Handler) SaveDump(c *fiber.Ctx) error {
	raw := map[string]any{}
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return dumpError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	payload, err := services.ParseDumpPayload(raw)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDump) {
			return dumpError(c, fiber.StatusBadRequest, err.Error())
		}
		return dumpError(c, fiber.StatusInternalServerError, "failed to parse dump")
	}

	dump, rowCount, err := handler.dumps.Submit(payload, handler.now())
	if err != nil {
		return dumpError(c, fiber.StatusInternalServerError, "failed to save dump")
	}

	log.Printf("saved health dump for %s (rows: %d)", dump.Date, rowCount)
	return c.JSON(fiber.Map{
		"status":    "success",
		"data":      dump,
		"row_count": rowCount,
	})
}
