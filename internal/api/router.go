package api

import (
	"fintrack/docs"
	"fintrack/internal/api/handlers"
	"fintrack/pkg/config"
	"fintrack/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Transactions *handlers.TransactionHandler
	Analytics    *handlers.AnalyticsHandler
	Imports      *handlers.ImportHandler
	Settings     *handlers.SettingsHandler
	Health       *handlers.HealthHandler
}

func SetupRouter(h Handlers, cfg config.ServerConfig, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "fintrack",
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
	}))
	app.Use(middleware.RequestLogger(appLogger))

	// Importing docs registers the spec through its init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", h.Health.Health)

	api := app.Group("/api")

	// Fixed paths are registered before /:id so they are not parsed as ids
	transactions := api.Group("/transactions")
	transactions.Post("", h.Transactions.CreateTransaction)
	transactions.Get("", h.Transactions.ListTransactions)
	transactions.Post("/import", h.Transactions.ImportTransactions)
	transactions.Get("/summary", h.Analytics.Summary)
	transactions.Get("/analytics/by-type", h.Analytics.TotalByType)
	transactions.Get("/analytics/by-category", h.Analytics.TotalsByCategory)
	transactions.Get("/:id", h.Transactions.GetTransaction)
	transactions.Patch("/:id", h.Transactions.UpdateTransaction)
	transactions.Delete("/:id", h.Transactions.DeleteTransaction)

	imports := api.Group("/imports")
	imports.Post("/upload", h.Imports.UploadCSV)

	settings := api.Group("/settings")
	settings.Get("", h.Settings.GetSettings)
	settings.Put("", h.Settings.UpdateSettings)
	settings.Delete("", h.Settings.ResetSettings)

	return app
}
