package api

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/momonala/ios-health-dump/internal/config"
	"github.com/momonala/ios-health-dump/internal/db"
	"github.com/momonala/ios-health-dump/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	dumps         *services.DumpService
	location      *time.Location
	goals         config.GoalsConfig
	indexTemplate *template.Template
	now           func() time.Time
}

func NewHandler(database *gorm.DB, templateDir string, location *time.Location, goals config.GoalsConfig) (*Handler, error) {
	if location == nil {
		location = time.UTC
	}

	indexTemplate, err := template.ParseFiles(filepath.Join(templateDir, "index.html"))
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		dumps:         services.NewDumpService(repositories.HealthDumps, location),
		location:      location,
		goals:         goals,
		indexTemplate: indexTemplate,
		now:           time.Now,
	}, nil
}
