package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"calorie-tracker/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDB opens postgres by default, or a local sqlite file when
// DB_DRIVER is sqlite.
func ConnectDB() (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
	if utils.GetConfig("ENV") != "production" {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(utils.GetConfig("DB_DRIVER")) {
	case "sqlite":
		path := utils.GetConfig("DB_PATH")
		if path == "" {
			path = "./data/calorie-tracker.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"), cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_NAME"),
			utils.GetConfig("DB_PORT"),
		)
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", utils.GetConfig("DB_DRIVER"))
	}

	return db, nil
}
