package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/config"
	"github.com/techhire/techhire-api/database"
	"github.com/techhire/techhire-api/handlers"
	admin_handlers "github.com/techhire/techhire-api/handlers/admin"
	job_handlers "github.com/techhire/techhire-api/handlers/jobs"
	notification_handlers "github.com/techhire/techhire-api/handlers/notifications"
	"github.com/techhire/techhire-api/services"
	"github.com/techhire/techhire-api/services/push"
	"github.com/techhire/techhire-api/utils"
	"github.com/techhire/techhire-api/utils/auth"
	"github.com/techhire/techhire-api/utils/cache"
	"github.com/techhire/techhire-api/utils/middleware"
	"gorm.io/gorm"
)

// Deps carries the services built at startup into route wiring.
type Deps struct {
	Env           *config.EnviornmentVariable
	Cache         *cache.RedisCache // may be nil
	Subscriptions *services.SubscriptionStore
	Catalog       *services.CatalogService
	Dispatcher    *push.Dispatcher
}

func SetupRoutes(app *fiber.App, store database.Storage, deps Deps) {
	if deps.Env.SESSION_SECRET == "" {
		log.Fatal("SESSION_SECRET environment variable is not set")
	}

	sessionIssuer := deps.Env.SESSION_ISSUER
	if sessionIssuer == "" {
		sessionIssuer = "techhire-api"
	}

	sessions := auth.NewSessionManager(auth.SessionConfig{
		Secret: deps.Env.SESSION_SECRET,
		Expiry: time.Hour, // matches the 1 hour admin session timeout
		Issuer: sessionIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Brute force protection wants Redis; without it admin login simply
	// loses lockouts.
	var bruteForceProtection *middleware.BruteForceProtection
	if deps.Cache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Cache)
	}

	authMiddleware := middleware.NewAuthMiddleware(sessions, db)

	// Apply security middleware
	allowedOrigins := deps.Env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Handlers
	jobHandler := job_handlers.NewJobHandler(deps.Catalog)
	notificationHandler := notification_handlers.NewNotificationHandler(deps.Subscriptions, deps.Env.VAPID_PUBLIC_KEY)
	authHandler := admin_handlers.NewAuthHandler(db, sessions, bruteForceProtection, deps.Env.GO_ENV == "production")
	jobAdminHandler := admin_handlers.NewJobAdminHandler(deps.Catalog, deps.Dispatcher)
	broadcastHandler := admin_handlers.NewBroadcastHandler(deps.Dispatcher)

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// Public listing index
	app.Get("/", jobHandler.ListJobs)
	app.Get("/jobs/:id", jobHandler.GetJob)

	// Push subscription endpoints (public)
	app.Get("/api/vapid-public-key", notificationHandler.GetVAPIDPublicKey)
	app.Post("/api/subscribe", notificationHandler.Subscribe)
	app.Post("/api/unsubscribe", notificationHandler.Unsubscribe)

	// Admin routes
	adminGroup := app.Group("/admin")

	// Login with brute force protection when Redis is up
	if bruteForceProtection != nil {
		adminGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		adminGroup.Post("/login", authHandler.Login)
	}
	adminGroup.Post("/logout", authMiddleware.RequireAdmin(), authHandler.Logout)

	// Listing management (session-authenticated)
	adminGroup.Get("/dashboard", authMiddleware.RequireAdmin(), jobAdminHandler.Dashboard)
	adminGroup.Post("/jobs", authMiddleware.RequireAdmin(), jobAdminHandler.CreateJob)
	adminGroup.Put("/jobs/:id", authMiddleware.RequireAdmin(), jobAdminHandler.UpdateJob)
	adminGroup.Delete("/jobs/:id", authMiddleware.RequireAdmin(), jobAdminHandler.DeleteJob)

	// Custom broadcast notifications
	adminGroup.Post("/notify", authMiddleware.RequireAdmin(), broadcastHandler.Send)
}
