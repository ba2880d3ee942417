package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/auth"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
)

// Authentication lets a request through only when a passes it. Any error
// from the authenticator is a 401.
func Authentication(a auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := a.Authenticate(c.Request)
		if err == nil {
			c.Next()
			return
		}
		if !errors.Is(err, auth.ErrUnauthorized) {
			err = fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
		}
		response.WriteError(c, err)
	}
}
