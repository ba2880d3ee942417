package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/auth"
	"github.com/maxviazov/openapi-skeleton/internal/middleware"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetDoc = `
openapi: 3.0.3
info:
  title: Widgets
  version: 0.0.1
servers:
  - url: /v2
paths:
  /widgets/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
            pattern: '^[0-9]+$'
        - name: page[size]
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: object
                required: [x]
                properties:
                  x:
                    type: integer
        '204':
          description: nothing
`

// harness builds an engine whose /v2/widgets/:id handler is h. The marker
// the validator left behind is copied into marker.
type harness struct {
	engine *gin.Engine
	logs   *bytes.Buffer
	marker bool
}

func newHarness(t *testing.T, strict bool, h gin.HandlerFunc) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	doc, err := openapi.Load(context.Background(), []byte(widgetDoc))
	require.NoError(t, err)

	hs := &harness{logs: &bytes.Buffer{}}
	log := zerolog.New(hs.logs)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		hs.marker = c.GetBool(middleware.ValidationFailedKey)
	})
	r.Use(middleware.Recovery(log))
	g := r.Group("/v2")
	g.Use(middleware.ResponseValidator(doc, strict, log), middleware.RequestValidator(doc))
	g.GET("/widgets/:id", h)
	r.GET("/other", h)
	hs.engine = r
	return hs
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (h *harness) warnings() int {
	return strings.Count(h.logs.String(), `"level":"warn"`)
}

func jsonBody(v any) gin.HandlerFunc {
	return func(c *gin.Context) { c.JSON(http.StatusOK, v) }
}

func TestResponseValidator_ValidPassesThrough(t *testing.T) {
	for _, strict := range []bool{true, false} {
		h := newHarness(t, strict, jsonBody(gin.H{"x": 1}))
		w := h.get("/v2/widgets/1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"x":1}`, w.Body.String())
		assert.False(t, h.marker)
		assert.Zero(t, h.warnings())
	}
}

func TestResponseValidator_StrictRejects(t *testing.T) {
	h := newHarness(t, true, jsonBody(gin.H{"y": 1}))
	w := h.get("/v2/widgets/1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, h.marker)
	assert.NotContains(t, w.Body.String(), `"y"`)

	var body response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_response", body.Error)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
	assert.Equal(t, "Invalid response for status code 200", body.Message)
	assert.NotEmpty(t, body.Details)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
}

func TestResponseValidator_LenientWarnsOnceAndSendsOriginal(t *testing.T) {
	h := newHarness(t, false, jsonBody(gin.H{"y": 1}))
	w := h.get("/v2/widgets/1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"y":1}`, w.Body.String())
	assert.True(t, h.marker)
	assert.Equal(t, 1, h.warnings())
	assert.Contains(t, h.logs.String(), "Invalid response for status code 200")
}

func TestResponseValidator_MarkerAlreadySetSkipsValidation(t *testing.T) {
	h := newHarness(t, true, func(c *gin.Context) {
		c.Set(middleware.ValidationFailedKey, true)
		c.JSON(http.StatusOK, gin.H{"y": 1})
	})
	w := h.get("/v2/widgets/1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"y":1}`, w.Body.String())
	assert.True(t, h.marker)
	assert.Zero(t, h.warnings())
}

func TestResponseValidator_NoSchemaForStatus(t *testing.T) {
	h := newHarness(t, true, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := h.get("/v2/widgets/1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, h.marker)

	h = newHarness(t, true, func(c *gin.Context) { c.JSON(http.StatusTeapot, gin.H{"anything": true}) })
	w = h.get("/v2/widgets/1")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.False(t, h.marker)
}

func TestResponseValidator_UndeclaredRoute(t *testing.T) {
	h := newHarness(t, true, jsonBody(gin.H{"y": 1}))
	w := h.get("/other")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, h.marker)
}

func TestResponseValidator_PanicStillAnswersOnce(t *testing.T) {
	h := newHarness(t, true, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"x": 1})
		panic("boom")
	})
	w := h.get("/v2/widgets/1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error)
	assert.Contains(t, h.logs.String(), "handler panicked")
}

func TestIntercept_FailUsesSharedErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Intercept(func(out *middleware.Outgoing) middleware.Action {
		out.Err = errors.New("cannot serialize")
		return middleware.ActionFail
	}))
	r.GET("/x", jsonBody(gin.H{"x": 1}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error)
	assert.NotContains(t, w.Body.String(), `"x"`)
}

func TestIntercept_ReplaceAndStatusOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Intercept(func(out *middleware.Outgoing) middleware.Action {
		if out.Request.URL.Path != "/replace" {
			return middleware.ActionSend
		}
		out.Status = http.StatusAccepted
		out.Body = []byte(`{"replaced":true}`)
		return middleware.ActionReplace
	}))
	r.GET("/replace", func(c *gin.Context) { c.String(http.StatusOK, "plain") })
	r.GET("/status", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/replace", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"replaced":true}`, w.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequestValidator(t *testing.T) {
	h := newHarness(t, true, jsonBody(gin.H{"x": 1}))

	w := h.get("/v2/widgets/1?page%5Bsize%5D=5")
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/v2/widgets/1?page%5Bsize%5D=0", "/v2/widgets/1?page%5Bsize%5D=ten"} {
		w = h.get(path)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		var body response.ErrorPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "invalid_input", body.Error)
		require.NotEmpty(t, body.FieldErrors)
		assert.Equal(t, "page[size]", body.FieldErrors[0].Field)
	}

	w = h.get("/v2/widgets/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"id"`)
}

func TestAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newEngine := func(a auth.Authenticator) *gin.Engine {
		r := gin.New()
		r.Use(middleware.Authentication(a))
		r.GET("/x", jsonBody(gin.H{"ok": true}))
		return r
	}

	w := httptest.NewRecorder()
	newEngine(auth.AllowAll).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	deny := auth.AuthenticatorFunc(func(*http.Request) error { return errors.New("nope") })
	w = httptest.NewRecorder()
	newEngine(deny).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(middleware.RequestLogger(zerolog.New(&buf)))
	var ctxLogged bool
	r.GET("/x", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		ctxLogged = true
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, id, 36)
	assert.True(t, ctxLogged)
	assert.Equal(t, 2, strings.Count(buf.String(), id))
	assert.Contains(t, buf.String(), `"status":200`)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}
