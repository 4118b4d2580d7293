package models

import "time"

// HealthDump is the single row of truth for one calendar day of metrics.
// Date is the primary key, so the table can never hold two records for
// the same day; resubmissions overwrite in place.
type HealthDump struct {
	Date           string    `gorm:"primaryKey;type:text" json:"date"`
	Steps          int       `gorm:"not null;default:0" json:"steps"`
	Kcals          float64   `gorm:"not null;default:0" json:"kcals"`
	Km             float64   `gorm:"not null;default:0" json:"km"`
	FlightsClimbed int       `gorm:"not null;default:0" json:"flights_climbed"`
	Weight         *float64  `json:"weight"`
	RecordedAt     time.Time `gorm:"not null" json:"recorded_at"`
}

func (HealthDump) TableName() string {
	return "health_dumps"
}
