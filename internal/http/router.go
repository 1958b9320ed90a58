package http

import (
	"time"

	"github.com/bruteosaur/backend/internal/config"
	"github.com/bruteosaur/backend/internal/http/handlers"
	"github.com/bruteosaur/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Wallet connection pipeline
	protected.Post("/wallet/connect", walletHandler.Connect)
	protected.Post("/wallet/manual-connect", walletHandler.ManualConnect)
	protected.Get("/wallet/logs", walletHandler.MyLogs)

	// Operator console
	admin := protected.Group("/admin", middleware.AdminMiddleware(cfg))
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/realtime-stats", adminHandler.RealtimeStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id/status", adminHandler.UpdateUserStatus)
	admin.Get("/wallet-logs", adminHandler.WalletLogs)
	admin.Get("/export/users", adminHandler.ExportUsers)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
