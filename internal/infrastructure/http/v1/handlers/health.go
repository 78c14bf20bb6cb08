// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"warehub/internal/infrastructure/storage/postgres"
)

// Database is the part of the connection pool health checks need.
type Database interface {
	Ping(ctx context.Context) error
	Stats() postgres.PoolStats
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db      Database
	version string
}

// NewHealthHandler creates a new health handler. db may be nil when reports
// are served from the in-memory source.
func NewHealthHandler(db Database, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Live reports whether the process is alive.
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready reports whether the service can accept traffic.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"checks": map[string]string{
				"database": "in-memory",
			},
		})
		return
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "warehub",
		"version": h.version,
	}
	if h.db != nil {
		stat := h.db.Stats()
		info["database"] = map[string]any{
			"total_conns":         stat.TotalConns,
			"acquired_conns":      stat.AcquiredConns,
			"idle_conns":          stat.IdleConns,
			"max_conns":           stat.MaxConns,
			"acquire_count":       stat.AcquireCount,
			"acquire_duration_ms": stat.AcquireDuration.Milliseconds(),
		}
	}
	c.JSON(http.StatusOK, info)
}
