package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"warehub/internal/core/apperror"
	appctx "warehub/internal/core/context"
	"warehub/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	location *time.Location
}

// NewBaseHandler creates a new base handler. Calendar dates in query
// parameters are interpreted in loc.
func NewBaseHandler(loc *time.Location) *BaseHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BaseHandler{location: loc}
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseDate parses an optional YYYY-MM-DD parameter as local midnight.
func (h *BaseHandler) ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, value, h.location)
	if err != nil {
		return nil, apperror.NewInvalidInput(field, "expected date in YYYY-MM-DD format").
			WithDetail("value", value)
	}
	return &t, nil
}

// GetSystemCode returns the system resolved by middleware.System.
func (h *BaseHandler) GetSystemCode(c *gin.Context) string {
	return appctx.GetSystemCode(c.Request.Context())
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
