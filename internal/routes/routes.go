package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roadwatch/roadwatch-backend/internal/config"
	"github.com/roadwatch/roadwatch-backend/internal/handlers"
	"github.com/roadwatch/roadwatch-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	configHandler *handlers.ConfigHandler,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	v1 := api.Group("/v1")
	v1.Get("/config", configHandler.Get)

	// Auth is public but gets a stricter limiter: 10 req/min per IP
	auth := v1.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	jwt := middleware.JWTProtected(cfg)
	active := middleware.ActiveUserRequired(db)

	v1.Post("/auth/logout", jwt, authHandler.Logout)
	v1.Get("/users/me", jwt, authHandler.Me)

	// Reports: reads are public, mutations need an active (non-banned) user.
	v1.Get("/reports", reportHandler.List)
	v1.Get("/reports/:id", reportHandler.Get)
	v1.Post("/reports", jwt, active, reportHandler.Create)
	v1.Post("/reports/:id/confirm", jwt, active, reportHandler.Confirm)
	v1.Post("/reports/:id/deny", jwt, active, reportHandler.Deny)
	v1.Delete("/reports/:id", jwt, reportHandler.Delete)

	v1.Get("/notifications", jwt, notificationHandler.List)
	v1.Put("/notifications/read-all", jwt, notificationHandler.MarkAllRead)
	v1.Put("/notifications/:id/read", jwt, notificationHandler.MarkRead)

	admin := v1.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Get("/reports", reportHandler.ListAll)
	admin.Put("/users/:id/ban", authHandler.BanUser)
}
