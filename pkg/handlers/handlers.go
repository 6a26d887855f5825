package handlers

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/auth"
	"github.com/arnavshah/duty-roster-go/pkg/cache"
	"github.com/arnavshah/duty-roster-go/pkg/database"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/roster"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/arnavshah/duty-roster-go/pkg/staffio"
)

// Version is reported by the index route
const Version = "1.0.0"

//go:embed static/*
var staticEmbed embed.FS

// UsageRecorder persists the usage log
type UsageRecorder interface {
	RecordGeneration(ctx context.Context, r *models.Roster, staffCount int) error
	RecordSwap(ctx context.Context, accepted bool) error
	Usage(ctx context.Context, days int) ([]database.UsageDay, error)
	Runs(ctx context.Context, limit int) ([]database.RunLog, error)
}

// Handler contains dependencies for the route handlers
type Handler struct {
	Store  *roster.Store
	Auth   *auth.Authenticator
	Usage  UsageRecorder
	Cache  *cache.Cache
	Logger *zap.Logger
}

// RegisterRoutes wires every route onto r
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Duty Roster API",
			"version": Version,
		})
	})
	r.GET("/admin", h.AdminInterface)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", h.Login)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.POST("/roster/generate", h.Generate)
		api.POST("/roster/upload", h.Upload)
		api.GET("/roster", h.GetRoster)
		api.GET("/roster/pivot", h.GetPivot)
		api.GET("/roster/daily", h.GetDaily)
		api.GET("/roster/totals", h.GetTotals)
		api.POST("/roster/swap", h.Swap)
		api.GET("/roster/export.xlsx", h.ExportXLSX)
		api.GET("/roster/export.csv", h.ExportCSV)
		api.POST("/staff/validate", h.ValidateStaff)
		api.GET("/config", h.GetConfig)
		api.GET("/usage", h.GetUsage)
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// AuthMiddleware verifies the bearer token issued by Login
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}

// Login exchanges the shared password for a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.logger().Error("Could not create token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// respondError maps domain errors onto status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	var cfgErr *scheduler.ConfigurationError
	var violation *scheduler.ConstraintViolation

	switch {
	case errors.As(err, &cfgErr), errors.Is(err, staffio.ErrMissingColumn):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &violation):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"row_a": violation.RowA,
			"row_b": violation.RowB,
		})
	case errors.Is(err, roster.ErrNoRoster):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
