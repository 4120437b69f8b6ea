package migration

import (
	"fmt"

	"calorie-tracker/entities"
	"calorie-tracker/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"food entry", &entities.FoodEntry{}},
		{"shared food", &entities.SharedFood{}},
		{"custom food", &entities.CustomFood{}},
		{"profile", &entities.Profile{}},
		{"weight log", &entities.WeightLog{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("error migrating table", zap.String("table", m.name), zap.Error(err))
			return fmt.Errorf("migrate %s: %w", m.name, err)
		}
	}

	logger.Info("database migration complete")
	return nil
}
