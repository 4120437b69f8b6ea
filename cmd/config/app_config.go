package config

import (
	"context"
	"os"
	"time"

	"calorie-tracker/internal/api/handlers"
	"calorie-tracker/internal/api/routes"
	"calorie-tracker/internal/middleware"
	"calorie-tracker/internal/utils"
	"calorie-tracker/internal/utils/mailing"
	"calorie-tracker/internal/utils/storage"
	"calorie-tracker/pkg/customfood"
	"calorie-tracker/pkg/diary"
	"calorie-tracker/pkg/history"
	"calorie-tracker/pkg/jwt"
	"calorie-tracker/pkg/profile"
	"calorie-tracker/pkg/realtime"
	"calorie-tracker/pkg/search"
	"calorie-tracker/pkg/sharedfood"
	"calorie-tracker/pkg/syncqueue"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App is the HTTP server plus the background workers that keep queued
// writes flowing.
type App struct {
	Fiber   *fiber.App
	Queue   *syncqueue.Queue
	Monitor *syncqueue.Monitor
	Hub     *realtime.Hub

	logFile *os.File
}

func NewApp(db *gorm.DB) (*App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("ENV") != "production",
		BodyLimit:         16 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("APP_URL"))
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// utils
	s3 := storage.NewAwsS3()
	hub := realtime.NewHub(0)
	cache := search.NewLRUCache(
		utils.GetInt("SEARCH_CACHE_SIZE", search.DefaultCacheSize),
		utils.GetDuration("SEARCH_CACHE_TTL", search.DefaultCacheTTL),
	)

	// Repository
	diaryRepository := diary.NewDiaryRepository(db)
	sharedFoodRepository := sharedfood.NewSharedFoodRepository(db)
	customFoodRepository := customfood.NewCustomFoodRepository(db)
	profileRepository := profile.NewProfileRepository(db)
	historyRepository := history.NewHistoryRepository(db)

	// Sync queue; the notifier looks up e-mail addresses through the profile
	// service, which in turn writes through the queue.
	mailConfig := mailing.LoadMailConfig()
	var profileService profile.ProfileService
	emails := emailLookupFunc(func(ctx context.Context, userID string) (string, error) {
		return profileService.Email(ctx, userID)
	})
	queue := syncqueue.New(syncqueue.Config{
		MaxAttempts: utils.GetInt("SYNC_MAX_ATTEMPTS", syncqueue.DefaultMaxAttempts),
		BaseDelay:   utils.GetDuration("SYNC_BASE_DELAY", syncqueue.DefaultBaseDelay),
	}, nil, syncqueue.Notifiers{
		syncqueue.NewLogNotifier(),
		realtime.NewSyncFailedNotifier(hub),
		mailing.NewAbandonNotifier(mailing.NewMailer(mailConfig), emails, mailConfig.AppURL),
	})
	monitor := syncqueue.NewMonitor(sqlDB, queue, utils.GetDuration("SYNC_PING_INTERVAL", 5*time.Second))

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	profileService = profile.NewProfileService(profileRepository, queue, hub)
	sharedFoodService := sharedfood.NewSharedFoodService(sharedFoodRepository, s3)
	customFoodService := customfood.NewCustomFoodService(customFoodRepository)
	historyService := history.NewHistoryService(historyRepository, queue)
	resolver := &search.Resolver{Shared: sharedFoodService, Custom: customFoodService}
	diaryService := diary.NewDiaryService(diaryRepository, resolver, sharedFoodService, profileService, queue, hub)
	resolver.Recent = diaryService
	searchService := search.NewSearchService(
		search.NewRegionalSource(""),
		search.Cached(search.NewSharedSource(sharedFoodService), cache),
		search.NewCustomSource(customFoodService),
		search.NewRecentSource(diaryService, search.DefaultRecentWindow),
	)

	// Handler
	searchHandler := handlers.NewSearchHandler(searchService)
	diaryHandler := handlers.NewDiaryHandler(diaryService, hub, validator)
	sharedFoodHandler := handlers.NewSharedFoodHandler(sharedFoodService, validator)
	customFoodHandler := handlers.NewCustomFoodHandler(customFoodService, validator)
	profileHandler := handlers.NewProfileHandler(profileService, validator)
	historyHandler := handlers.NewHistoryHandler(historyService, validator)
	syncHandler := handlers.NewSyncHandler(queue)

	// routes
	routesConfig := routes.Config{
		App:               app,
		SearchHandler:     searchHandler,
		DiaryHandler:      diaryHandler,
		SharedFoodHandler: sharedFoodHandler,
		CustomFoodHandler: customFoodHandler,
		ProfileHandler:    profileHandler,
		HistoryHandler:    historyHandler,
		SyncHandler:       syncHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()

	return &App{
		Fiber:   app,
		Queue:   queue,
		Monitor: monitor,
		Hub:     hub,
		logFile: file,
	}, nil
}

// RunWorkers drives the queue and the connectivity monitor until ctx is
// cancelled.
func (a *App) RunWorkers(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Queue.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.Monitor.Run(gctx)
		return nil
	})
	return g.Wait()
}

func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

type emailLookupFunc func(ctx context.Context, userID string) (string, error)

func (f emailLookupFunc) Email(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}
