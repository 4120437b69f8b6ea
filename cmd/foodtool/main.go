// Command foodtool administers the shared food store and converts food
// datasets between CSV and JSON.
//
// Usage:
//
//	foodtool import foods.csv
//	foodtool export --format csv --out foods.csv
//	foodtool clear --yes
//	foodtool convert legacy.csv --to json
package main

import (
	"fmt"
	"os"

	"calorie-tracker/cmd/config"
	migration "calorie-tracker/cmd/database/migrate"
	"calorie-tracker/internal/logger"
	"calorie-tracker/internal/utils"
	"calorie-tracker/internal/utils/storage"
	"calorie-tracker/pkg/sharedfood"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "foodtool",
	Short: "Shared food store administration",
	Long: `foodtool imports, exports and clears the shared food store, and converts
food datasets with loosely named columns into the canonical shape.

Database and storage settings come from config.yaml (or --config).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configFile != "" {
			os.Setenv("CONFIG_FILE", configFile)
		}
		if verbose {
			logger.InitializeLogger()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(hashPassphraseCmd)
}

// openStore loads configuration and connects the shared food service to the
// configured database.
var openStore = func() (sharedfood.SharedFoodService, func(), error) {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := migration.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return sharedfood.NewSharedFoodService(sharedfood.NewSharedFoodRepository(db), storage.NewAwsS3()), closeFn, nil
}

func main() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		logger.Debug("foodtool failed", zap.Error(err))
		os.Exit(1)
	}
}
