package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
	"github.com/maxviazov/openapi-skeleton/internal/service"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
)

// RequestValidator rejects requests whose path or query parameters do not
// match the operation's declaration with a 400 invalid_input.
func RequestValidator(doc *openapi.Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		route, ok := doc.FindRoute(c.Request.Method, c.FullPath())
		if !ok {
			c.Next()
			return
		}

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		errs := doc.ValidateRequest(c.Request.Context(), c.Request, route, params)
		if len(errs) == 0 {
			c.Next()
			return
		}

		fields := make([]service.FieldError, 0, len(errs))
		for _, e := range errs {
			name := e.Field
			if name == "" {
				name = "request"
			}
			fields = append(fields, service.FieldError{Field: name, Message: e.Message})
		}
		response.WriteError(c, service.NewInvalidInput(fields))
	}
}
