package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/api/handlers"
	"github.com/GKRMP/garage/internal/api/middleware"
	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/repository"
	"github.com/GKRMP/garage/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	garage := service.NewGarageService(repos, logger)

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.API.AllowedOrigins))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		endpoints := []string{
			"GET /health",
			"GET /catalog/list",
			"GET /profile/selection?customerId=",
			"POST /profile/selection",
		}
		if cfg.API.AdminKeyHash != "" {
			endpoints = append(endpoints, "POST /admin/catalog/import", "GET /admin/imports/:id")
		}
		c.JSON(http.StatusOK, gin.H{
			"service":   "Garage Sync Gateway",
			"endpoints": endpoints,
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/catalog/list", handlers.HandleListCatalog(garage, logger))

	profile := router.Group("/profile")
	{
		profile.GET("/selection", handlers.HandleGetSelection(garage, logger))
		profile.POST("/selection", handlers.HandleSaveSelection(garage, logger))
	}

	// Catalog maintenance, behind the admin key
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AdminAuthMiddleware(cfg.API.AdminKeyHash, logger))
	{
		adminRoutes.POST("/catalog/import", handlers.HandleImportCatalog(cfg, repos, logger))
		adminRoutes.GET("/imports/:id", handlers.HandleGetImportRun(repos, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("internal server error: %v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
}
