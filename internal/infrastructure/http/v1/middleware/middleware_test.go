package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/core/apperror"
	appctx "warehub/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSystem_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header string
		cookie string
		want   string
	}{
		{"default", "", "", "", "FROZEN"},
		{"cookie", "", "", "DRY", "DRY"},
		{"header beats cookie", "", "MEAT", "DRY", "MEAT"},
		{"query beats all", "?systemType=FISH", "MEAT", "DRY", "FISH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(System("FROZEN"))
			var got string
			r.GET("/x", func(c *gin.Context) {
				got = appctx.GetSystemCode(c.Request.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(HeaderSystemType, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieSystemType, Value: tt.cookie})
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Trace())
	var got string
	r.GET("/x", func(c *gin.Context) {
		got = appctx.GetRequestID(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", got)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(apperror.NewValidation("dateTo is required").WithDetail("field", "dateTo"))
	})
	r.GET("/database", func(c *gin.Context) {
		_ = c.Error(apperror.NewDatabase("lots", errors.New("secret dsn leaked")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/validation", http.StatusBadRequest, apperror.CodeValidation},
		{"/database", http.StatusInternalServerError, apperror.CodeDatabase},
		{"/plain", http.StatusInternalServerError, apperror.CodeInternal},
		{"/panic", http.StatusInternalServerError, apperror.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
			assert.NotContains(t, w.Body.String(), "secret dsn")
			assert.NotContains(t, w.Body.String(), "kaboom")
		})
	}
}
