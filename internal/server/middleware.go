package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teachathon/teachathon/internal/config"
	"github.com/teachathon/teachathon/internal/logging"
)

const headerRequestID = "X-Request-ID"

// requestContext assigns a request id, echoes it in the response, and puts a
// request-scoped logger into the request context.
func requestContext(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		logger := base.With().Str("request_id", reqID).Logger()

		c.Request = c.Request.WithContext(logging.IntoContext(c.Request.Context(), logger))
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

// requestLogger writes one line per request once the handler returns.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger := logging.FromContext(c.Request.Context())
		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = logger.Error()
		case status >= 400:
			evt = logger.Warn()
		default:
			evt = logger.Info()
		}
		evt.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// recovery turns a panic into a 500 JSON response.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.writeError(c, fmt.Errorf("panic: %v", rec))
	})
}

// corsMiddleware applies the configured CORS policy. A "*" origin allows
// every origin.
func corsMiddleware(cfg config.CORS) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{
		Status:  "error",
		Error:   "not_found",
		Message: fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
	})
}
