package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/techhire/techhire-api/api"
	"github.com/techhire/techhire-api/config"
	"github.com/techhire/techhire-api/database"
	"github.com/techhire/techhire-api/router"
	"github.com/techhire/techhire-api/services"
	"github.com/techhire/techhire-api/services/cron"
	"github.com/techhire/techhire-api/services/push"
	"github.com/techhire/techhire-api/utils/cache"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Bootstrap the admin account from env credentials
	if err := store.SeedAdmin(getEnv.ADMIN_USERNAME, getEnv.ADMIN_PASSWORD); err != nil {
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Redis is optional: without it the batch-filter cache and login
	// lockouts are skipped, nothing else changes.
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Continuing without cache.", err)
			redisCache = nil
		}
	}

	// Domain services
	subscriptions := services.NewSubscriptionStore(db)
	catalog := services.NewCatalogService(db, redisCache)

	vapidKeys := push.VAPIDKeys{
		PublicKey:  getEnv.VAPID_PUBLIC_KEY,
		PrivateKey: getEnv.VAPID_PRIVATE_KEY,
		Subject:    getEnv.VAPID_SUBJECT,
	}
	if vapidKeys.PrivateKey == "" {
		log.Println("Warning: VAPID keys not configured. Push dispatches will be skipped.")
	}

	// Background dispatch runner: requests queue dispatches here and
	// return immediately.
	runner := push.NewRunner(2, 64)
	dispatcher := push.NewDispatcher(subscriptions, push.NewWebPushSender(vapidKeys), vapidKeys, runner)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(catalog, subscriptions)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			// Don't fail the app, just log the warning
		}
	}

	// Defer stopping cron jobs, draining in-flight dispatches, closing DB
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		runner.Drain(30 * time.Second)
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, store, router.Deps{
		Env:           getEnv,
		Cache:         redisCache,
		Subscriptions: subscriptions,
		Catalog:       catalog,
		Dispatcher:    dispatcher,
	})

	// Get the PORT & Start the Server
	return server.Run()
}
