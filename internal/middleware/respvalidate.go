package middleware

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
	"github.com/rs/zerolog"
)

// ResponseValidator checks every buffered response against the schema the
// document declares for its route and status. In strict mode a
// non-conforming body is replaced by an invalid_response error; otherwise a
// warning is logged and the body goes out as is.
func ResponseValidator(doc *openapi.Document, strict bool, logger zerolog.Logger) gin.HandlerFunc {
	v := &responseValidator{
		doc:    doc,
		strict: strict,
		log:    logger.With().Str("module", "middleware").Str("component", "response_validator").Logger(),
	}
	return Intercept(v.beforeSend)
}

type responseValidator struct {
	doc    *openapi.Document
	strict bool
	log    zerolog.Logger
}

func (v *responseValidator) beforeSend(out *Outgoing) Action {
	if out.ValidationFailed {
		return ActionSend
	}
	route, ok := v.doc.FindRoute(out.Request.Method, out.FullPath)
	if !ok {
		return ActionSend
	}

	outcome := v.doc.ValidateResponse(out.Request.Context(), out.Request, route, out.Status, out.Header, out.Body)
	if outcome.Valid {
		return ActionSend
	}
	out.ValidationFailed = true

	verr := &openapi.ValidationError{
		Status:  out.Status,
		Errors:  outcome.Errors,
		Message: fmt.Sprintf("Invalid response for status code %d", out.Status),
	}
	if !v.strict {
		v.log.Warn().
			Str("method", out.Request.Method).
			Str("route", route.Path).
			Int("status", out.Status).
			Interface("errors", outcome.Errors).
			Msg(verr.Message)
		return ActionSend
	}

	v.log.Error().
		Str("method", out.Request.Method).
		Str("route", route.Path).
		Int("status", out.Status).
		Int("error_count", len(outcome.Errors)).
		Msg(verr.Message)
	return replaceWithError(out, verr)
}

// replaceWithError swaps the body for the mapped error payload. A payload
// that cannot be serialized turns into ActionFail.
func replaceWithError(out *Outgoing, err error) Action {
	status, payload := response.MapError(err)
	body, mErr := json.Marshal(payload)
	if mErr != nil {
		out.Err = fmt.Errorf("serialize validation errors: %w", mErr)
		return ActionFail
	}
	out.Status = status
	out.Body = body
	return ActionReplace
}
