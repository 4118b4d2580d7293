package db

import "gorm.io/gorm"

type Repositories struct {
	HealthDumps *HealthDumpRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		HealthDumps: NewHealthDumpRepository(database),
	}
}
