package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/momonala/ios-health-dump/internal/config"
	"github.com/momonala/ios-health-dump/internal/db"
	"github.com/momonala/ios-health-dump/internal/models"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *Handler, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "health-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, filepath.Join("..", "templates"), time.UTC, config.GoalsConfig{
		Steps:   10000,
		Kcals:   500,
		Km:      8,
		Flights: 50,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler, database
}

func freezeHandlerClock(handler *Handler, instant time.Time) {
	handler.now = func() time.Time { return instant }
}

func seedDump(t *testing.T, database *gorm.DB, dump models.HealthDump) {
	t.Helper()
	if err := database.Create(&dump).Error; err != nil {
		t.Fatalf("seed dump for %s: %v", dump.Date, err)
	}
}
