package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momonala/ios-health-dump/internal/backup"
	"github.com/momonala/ios-health-dump/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("HEALTHDUMP_CONFIG"))
	if err != nil {
		log.Fatalf("config init failed: %v", err)
	}

	interval := time.Duration(cfg.Backup.IntervalMinutes) * time.Minute
	scheduler := backup.NewScheduler(".", cfg.Storage.DBPath, cfg.Backup.Branch, interval)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	scheduler.Start(sigCtx)
	log.Printf("backup scheduler running every %s (db: %s, branch: %s)", interval, cfg.Storage.DBPath, cfg.Backup.Branch)

	<-sigCtx.Done()
	log.Print("backup scheduler stopped")
}
