package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calorie-tracker/cmd/config"
	migration "calorie-tracker/cmd/database/migrate"
	"calorie-tracker/internal/logger"
	"calorie-tracker/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	utils.LoadConfig()
	logger.InitializeLogger()
	defer logger.Close()

	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := migration.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	app, err := config.NewApp(db)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := utils.GetConfig("PORT")
	if port == "" {
		port = "8080"
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.RunWorkers(gctx)
	})
	g.Go(func() error {
		logger.Info("server starting", zap.String("port", port))
		return app.Fiber.Listen(":" + port)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		if n := app.Queue.Len(); n > 0 {
			logger.Warn("pending writes dropped on shutdown", zap.Int("count", n))
		}
		return app.Fiber.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
