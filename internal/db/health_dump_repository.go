package db

import (
	"github.com/momonala/ios-health-dump/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HealthDumpRepository struct {
	database *gorm.DB
}

func NewHealthDumpRepository(database *gorm.DB) *HealthDumpRepository {
	return &HealthDumpRepository{database: database}
}

// ListAll returns every stored dump sorted by date descending, the order
// the dashboard read contract expects.
func (repo *HealthDumpRepository) ListAll() ([]models.HealthDump, error) {
	dumps := make([]models.HealthDump, 0)
	if err := repo.database.Order("date DESC").Find(&dumps).Error; err != nil {
		return nil, err
	}
	return dumps, nil
}

func (repo *HealthDumpRepository) FindByDate(date string) (models.HealthDump, bool, error) {
	dump := models.HealthDump{}
	result := repo.database.Where("date = ?", date).Limit(1).Find(&dump)
	if result.Error != nil {
		return models.HealthDump{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HealthDump{}, false, nil
	}
	return dump, true, nil
}

// Upsert inserts or replaces the row keyed by dump.Date in a single
// atomic statement. Same-date races resolve to the last write committed.
func (repo *HealthDumpRepository) Upsert(dump *models.HealthDump) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"steps", "kcals", "km", "flights_climbed", "weight", "recorded_at",
		}),
	}).Create(dump).Error
}

func (repo *HealthDumpRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.HealthDump{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
