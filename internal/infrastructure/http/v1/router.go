// Package v1 provides HTTP API version 1.
package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"warehub/internal/domain/reports"
	"warehub/internal/infrastructure/http/v1/handlers"
	"warehub/internal/infrastructure/http/v1/middleware"
	"warehub/internal/infrastructure/storage/postgres"
	"warehub/pkg/logger"
)

// Version is reported by /health/info.
const Version = "0.1.0"

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Reports serves every report endpoint
	Reports *reports.Service

	// Pool is used for health checks; nil when reports come from memory
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// DefaultSystemCode applies when a request names no system
	DefaultSystemCode string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.System(cfg.DefaultSystemCode))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	var db handlers.Database
	if cfg.Pool != nil {
		db = cfg.Pool
	}
	healthHandler := handlers.NewHealthHandler(db, Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	registerReportRoutes(v1, cfg)

	return router
}

func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(cfg.Reports.Settings().Location), cfg.Reports)

	inventory := rg.Group("/reports/inventory")
	{
		inventory.GET("", handler.GetInventory)
		inventory.GET("/by-tag", handler.GetInventoryByTag)
		inventory.GET("/by-lot", handler.GetInventoryByLot)
		inventory.GET("/reconciliation", handler.GetReconciliation)
	}
}

// Compress wraps h with gzip response compression. Bodies smaller than
// minSize bytes are sent as is.
func Compress(h http.Handler, minSize int) (http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(minSize))
	if err != nil {
		return nil, fmt.Errorf("compression wrapper: %w", err)
	}
	return wrap(h), nil
}
