package routes

import (
	"calorie-tracker/internal/api/handlers"
	"calorie-tracker/internal/middleware"
	"calorie-tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	SearchHandler     handlers.SearchHandler
	DiaryHandler      handlers.DiaryHandler
	SharedFoodHandler handlers.SharedFoodHandler
	CustomFoodHandler handlers.CustomFoodHandler
	ProfileHandler    handlers.ProfileHandler
	HistoryHandler    handlers.HistoryHandler
	SyncHandler       handlers.SyncHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Foods()
	c.Diary()
	c.SharedFoods()
	c.CustomFoods()
	c.Profile()
	c.History()
	c.Sync()
	c.Admin()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Foods() {
	foods := c.App.Group("/api/v1/foods", c.Middleware.AuthMiddleware(c.JWTService))
	foods.Get("/search", c.SearchHandler.SearchFoods)
	foods.Get("/regional", c.SearchHandler.GetRegions)
	foods.Get("/regional/:region", c.SearchHandler.GetRegionalFoods)
}

func (c *Config) Diary() {
	diary := c.App.Group("/api/v1/diary", c.Middleware.AuthMiddleware(c.JWTService))
	diary.Get("", c.DiaryHandler.GetDay)
	diary.Get("/recent", c.DiaryHandler.GetRecentFoods)
	diary.Get("/stream", c.DiaryHandler.Stream)

	diary.Post("/entries", c.DiaryHandler.AddEntry)
	diary.Patch("/entries/:id", c.DiaryHandler.UpdateEntry)
	diary.Delete("/entries/:id", c.DiaryHandler.DeleteEntry)
}

func (c *Config) SharedFoods() {
	shared := c.App.Group("/api/v1/shared-foods", c.Middleware.AuthMiddleware(c.JWTService))
	shared.Post("", c.SharedFoodHandler.Contribute)
	shared.Get("", c.SharedFoodHandler.GetSharedFoods)
	shared.Post("/image", c.SharedFoodHandler.UploadImage)
	shared.Get("/:id", c.SharedFoodHandler.GetSharedFood)
	shared.Post("/:id/like", c.SharedFoodHandler.Like)
	shared.Delete("/:id", c.SharedFoodHandler.Delete)
}

func (c *Config) CustomFoods() {
	custom := c.App.Group("/api/v1/custom-foods", c.Middleware.AuthMiddleware(c.JWTService))
	custom.Post("", c.CustomFoodHandler.CreateCustomFood)
	custom.Get("", c.CustomFoodHandler.GetCustomFoods)
	custom.Get("/:id", c.CustomFoodHandler.GetCustomFood)
	custom.Put("/:id", c.CustomFoodHandler.UpdateCustomFood)
	custom.Delete("/:id", c.CustomFoodHandler.DeleteCustomFood)
}

func (c *Config) Profile() {
	profile := c.App.Group("/api/v1/profile", c.Middleware.AuthMiddleware(c.JWTService))
	profile.Get("", c.ProfileHandler.GetProfile)
	profile.Patch("", c.ProfileHandler.UpdateProfile)
}

func (c *Config) History() {
	history := c.App.Group("/api/v1/history", c.Middleware.AuthMiddleware(c.JWTService))
	history.Get("/nutrition", c.HistoryHandler.GetNutrition)
	history.Get("/weights", c.HistoryHandler.GetWeights)
	history.Post("/weights", c.HistoryHandler.AddWeight)
	history.Delete("/weights/:id", c.HistoryHandler.DeleteWeight)
}

func (c *Config) Sync() {
	sync := c.App.Group("/api/v1/sync", c.Middleware.AuthMiddleware(c.JWTService))
	sync.Get("/pending", c.SyncHandler.GetPending)
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.AdminOnly())
	admin.Post("/shared-foods/import", c.SharedFoodHandler.Import)
	admin.Get("/shared-foods/export", c.SharedFoodHandler.Export)
	admin.Delete("/shared-foods", c.SharedFoodHandler.Clear)
}
