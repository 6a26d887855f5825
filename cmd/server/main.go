package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/auth"
	"github.com/arnavshah/duty-roster-go/pkg/cache"
	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/database"
	"github.com/arnavshah/duty-roster-go/pkg/handlers"
	"github.com/arnavshah/duty-roster-go/pkg/logging"
	"github.com/arnavshah/duty-roster-go/pkg/metrics"
	"github.com/arnavshah/duty-roster-go/pkg/roster"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	logger, err := logging.InitLogger(env, "logs")
	if err != nil {
		logger = logging.NewConsole()
		logger.Warn("File logging unavailable", zap.Error(err))
	}
	defer logger.Sync()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(os.Getenv("ROSTER_CONFIG"))
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	authenticator, err := auth.NewFromEnv()
	if err != nil {
		logger.Fatal("Failed to set up authentication", zap.Error(err))
	}

	db, err := database.InitDB()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	viewCache := cache.Connect(ctx, os.Getenv("REDIS_ADDR"), logger)
	cancel()
	defer viewCache.Close()

	store := roster.NewStore(cfg, logger)
	store.SetObserver(metrics.NewCollector(prometheus.DefaultRegisterer))

	h := &handlers.Handler{
		Store:  store,
		Auth:   authenticator,
		Usage:  &database.Recorder{DB: db},
		Cache:  viewCache,
		Logger: logger,
	}

	r := gin.New()
	r.Use(handlers.RequestLogger(logger), gin.Recovery())
	handlers.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logger.Info("Server starting",
		zap.String("port", port),
		zap.Int("slots", len(cfg.Slots())))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
