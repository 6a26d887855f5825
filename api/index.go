package handler

import (
	"context"
	"net/http"
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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	// No writable filesystem, console only
	logger := logging.NewConsole()

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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store := roster.NewStore(cfg, logger)
	store.SetObserver(metrics.NewCollector(prometheus.DefaultRegisterer))

	h := &handlers.Handler{
		Store:  store,
		Auth:   authenticator,
		Usage:  &database.Recorder{DB: db},
		Cache:  cache.Connect(ctx, os.Getenv("REDIS_ADDR"), logger),
		Logger: logger,
	}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(handlers.RequestLogger(logger), gin.Recovery())
	handlers.RegisterRoutes(r, h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, r_req *http.Request) {
	r.ServeHTTP(w, r_req)
}
