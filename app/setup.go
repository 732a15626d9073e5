package app

import (
	"fmt"
	"time"

	"github.com/sahilchouksey/learnhub-api/api"
	"github.com/sahilchouksey/learnhub-api/config"
	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/sahilchouksey/learnhub-api/router"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/services/cron"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/cache"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/storage"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	log, err := utils.NewLogger(env.LOG_MODE)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Initialize GORM database connection
	store, err := database.StartGORM(env, log)
	if err != nil {
		log.Error("check whether Postgres is running (make docker-up or make db-up)")
		return err
	}

	if err := store.Init(); err != nil {
		return err
	}

	// Redis is optional
	var redisCache *cache.RedisCache
	var statsCache services.JSONCache
	if env.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(env.REDIS_URL, "learnhub:")
		if err != nil {
			log.Warn("failed to connect to redis", "error", err)
			redisCache = nil
		} else {
			statsCache = redisCache
		}
	}

	uploader, uploadDir, err := setupStorage(env)
	if err != nil {
		return err
	}
	log.Info("storage configured", "driver", env.STORAGE_DRIVER)

	analytics := services.NewAnalyticsService(store.GetDB(), statsCache)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.GetDB(), log, analytics)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn("failed to start cron jobs", "error", err)
			cronManager = nil
		}
	}

	// Defer closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			_ = redisCache.Close()
		}
		_ = store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), log)

	err = router.SetupRoutes(server.GetEngine(), store, router.Options{
		JWTSecret: env.JWT_SECRET,
		JWTIssuer: env.JWT_ISSUER,
		Cache:     redisCache,
		Uploader:  uploader,
		UploadDir: uploadDir,
		Security: middleware.SecurityConfig{
			AllowedOrigins:    env.AllowedOrigins(),
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			AccessLog:         true,
		},
		Logger:    log,
		Analytics: analytics,
	})
	if err != nil {
		return err
	}

	return server.Run()
}

// setupStorage picks the upload backend. The second value is the directory to
// serve at /uploads, empty when files live in a bucket.
func setupStorage(env *config.EnviornmentVariable) (storage.Uploader, string, error) {
	switch env.STORAGE_DRIVER {
	case "spaces":
		spaces, err := storage.NewSpacesStorage(storage.SpacesConfig{
			AccessKey: env.DO_SPACES_ACCESS_KEY,
			SecretKey: env.DO_SPACES_SECRET_KEY,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
			CDNURL:    env.DO_SPACES_CDN_ENDPOINT,
		})
		if err != nil {
			return nil, "", err
		}
		return spaces, "", nil
	case "local", "":
		local, err := storage.NewLocalStorage(env.UPLOAD_DIR, env.PUBLIC_BASE_URL)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown STORAGE_DRIVER %q (want local or spaces)", env.STORAGE_DRIVER)
	}
}
