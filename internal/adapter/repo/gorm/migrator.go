package gormrepo

import (
	"fmt"

	"talespin/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the durable tables. The schema is small
// and additive, so gorm's migrator is enough here.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Story{}, &model.EnergyLedger{}, &model.Receipt{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
