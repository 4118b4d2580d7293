package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/momonala/ios-health-dump/internal/api"
	"github.com/momonala/ios-health-dump/internal/config"
	"github.com/momonala/ios-health-dump/internal/db"
)

func main() {
	cfg, err := config.Load(os.Getenv("HEALTHDUMP_CONFIG"))
	if err != nil {
		log.Fatalf("config init failed: %v", err)
	}

	location := mustLoadLocation(cfg.Timezone)

	database, err := db.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	handler, err := api.NewHandler(database, filepath.Join("internal", "templates"), location, cfg.Goals)
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "ios-health-dump",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	app.Static("/static", filepath.Join("web", "static"))
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("ios-health-dump listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, cfg.Storage.DBPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid timezone %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
