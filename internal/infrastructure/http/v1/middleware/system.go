package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "warehub/internal/core/context"
)

const (
	// QuerySystemType is the query parameter selecting the system.
	QuerySystemType = "systemType"

	// HeaderSystemType is the HTTP header selecting the system.
	HeaderSystemType = "X-System-Type"

	// CookieSystemType is the cookie the dashboard stores the system in.
	CookieSystemType = "systemType"
)

// System middleware resolves the system code (e.g. "FROZEN") every report is
// scoped by and injects it into the request context.
//
// Precedence: query parameter, header, cookie, then defaultCode.
func System(defaultCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Query(QuerySystemType))
		if code == "" {
			code = strings.TrimSpace(c.GetHeader(HeaderSystemType))
		}
		if code == "" {
			if v, err := c.Cookie(CookieSystemType); err == nil {
				code = strings.TrimSpace(v)
			}
		}
		if code == "" {
			code = defaultCode
		}

		ctx := appctx.WithSystemCode(c.Request.Context(), code)
		c.Request = c.Request.WithContext(ctx)
		c.Set("system_code", code)

		c.Next()
	}
}
