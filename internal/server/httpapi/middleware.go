package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// recovery turns a handler panic into a logged 500 without leaking the panic
// value to the client.
func (rt *Router) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		rt.logg.Error(c.Request.Context(), "panic recovered",
			"path", c.Request.URL.Path,
			"panic", fmt.Sprintf("%v", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// requestID tags every request with a correlation id, honoring one supplied
// by the caller.
func (rt *Router) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func (rt *Router) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "x-auth-token", "x-api-key", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	allowAll := false
	for _, o := range rt.cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = rt.cfg.AllowedOrigins
	}
	return cors.New(cfg)
}

// metricsMiddleware times every request into the recorder. The route pattern
// is preferred over the raw path so parameterized routes aggregate together.
func (rt *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		st := c.Writer.Status()
		rt.rec.RecordRequest(c.Request.Method, path, st, elapsed)
		if st >= 400 {
			msg := http.StatusText(st)
			if len(c.Errors) > 0 {
				msg = c.Errors.Last().Error()
			}
			rt.rec.RecordError(c.Request.Method, path, st, msg)
		}
	}
}
