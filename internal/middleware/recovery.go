package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 internal_error and logs the stack.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Str("component", "recovery").Logger()
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			l.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("path", c.Request.URL.Path).
				Msg("handler panicked")
			response.WriteError(c, fmt.Errorf("panic: %v", rec))
		}()
		c.Next()
	}
}
