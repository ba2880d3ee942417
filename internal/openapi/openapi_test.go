package openapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maxviazov/openapi-skeleton/api"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
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

func loadWidgets(t *testing.T) *openapi.Document {
	t.Helper()
	doc, err := openapi.Load(context.Background(), []byte(widgetDoc))
	require.NoError(t, err)
	return doc
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=utf-8")
	return h
}

func TestLoad_EmbeddedDocument(t *testing.T) {
	doc, err := openapi.Load(context.Background(), api.Spec)
	require.NoError(t, err)
	assert.Equal(t, "Pets API", doc.Title())
	assert.Equal(t, "/api/v1", doc.BasePath())

	route, ok := doc.FindRoute(http.MethodGet, "/api/v1/pets/:id")
	require.True(t, ok)
	assert.Equal(t, "/pets/{id}", route.Path)

	_, ok = doc.FindRoute(http.MethodGet, "/api/v1/pets")
	assert.True(t, ok)
}

func TestLoad_RejectsBrokenDocument(t *testing.T) {
	_, err := openapi.Load(context.Background(), []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"))
	assert.Error(t, err)
}

func TestFindRoute(t *testing.T) {
	doc := loadWidgets(t)

	cases := []struct {
		name   string
		method string
		path   string
		want   bool
	}{
		{"declared", http.MethodGet, "/v2/widgets/:id", true},
		{"undeclared method", http.MethodPost, "/v2/widgets/:id", false},
		{"outside base path", http.MethodGet, "/widgets/:id", false},
		{"unknown path", http.MethodGet, "/v2/gadgets", false},
		{"no route matched", http.MethodGet, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := doc.FindRoute(tc.method, tc.path)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestValidateResponse(t *testing.T) {
	doc := loadWidgets(t)
	route, ok := doc.FindRoute(http.MethodGet, "/v2/widgets/:id")
	require.True(t, ok)
	req := httptest.NewRequest(http.MethodGet, "/v2/widgets/1", nil)

	t.Run("conforming body", func(t *testing.T) {
		out := doc.ValidateResponse(context.Background(), req, route, http.StatusOK, jsonHeader(), []byte(`{"x":1}`))
		assert.True(t, out.Valid)
		assert.Empty(t, out.Errors)
	})

	t.Run("missing required field", func(t *testing.T) {
		out := doc.ValidateResponse(context.Background(), req, route, http.StatusOK, jsonHeader(), []byte(`{"y":1}`))
		require.False(t, out.Valid)
		require.NotEmpty(t, out.Errors)
		assert.True(t, mentions(out.Errors, "x"), "errors should reference x: %+v", out.Errors)
		assert.NotEmpty(t, out.Message)
	})

	t.Run("wrong type", func(t *testing.T) {
		out := doc.ValidateResponse(context.Background(), req, route, http.StatusOK, jsonHeader(), []byte(`{"x":"one"}`))
		assert.False(t, out.Valid)
	})

	t.Run("status without schema", func(t *testing.T) {
		out := doc.ValidateResponse(context.Background(), req, route, http.StatusNoContent, http.Header{}, nil)
		assert.True(t, out.Valid)
	})

	t.Run("undeclared status", func(t *testing.T) {
		out := doc.ValidateResponse(context.Background(), req, route, http.StatusTeapot, jsonHeader(), []byte(`{}`))
		assert.True(t, out.Valid)
	})
}

func TestValidateRequest(t *testing.T) {
	doc := loadWidgets(t)
	route, ok := doc.FindRoute(http.MethodGet, "/v2/widgets/:id")
	require.True(t, ok)

	ok1 := httptest.NewRequest(http.MethodGet, "/v2/widgets/1?page%5Bsize%5D=5", nil)
	assert.Empty(t, doc.ValidateRequest(context.Background(), ok1, route, map[string]string{"id": "1"}))

	bad := httptest.NewRequest(http.MethodGet, "/v2/widgets/1?page%5Bsize%5D=0", nil)
	errs := doc.ValidateRequest(context.Background(), bad, route, map[string]string{"id": "1"})
	require.NotEmpty(t, errs)
	assert.Equal(t, "page[size]", errs[0].Field)

	nan := httptest.NewRequest(http.MethodGet, "/v2/widgets/1?page%5Bsize%5D=ten", nil)
	errs = doc.ValidateRequest(context.Background(), nan, route, map[string]string{"id": "1"})
	require.NotEmpty(t, errs)
	assert.Equal(t, "page[size]", errs[0].Field)
}

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	err := error(&openapi.ValidationError{Status: 200, Message: "Invalid response for status code 200"})
	assert.True(t, errors.Is(err, openapi.ErrInvalidResponse))
	assert.Equal(t, "Invalid response for status code 200", err.Error())
}

func mentions(errs []openapi.SchemaError, field string) bool {
	for _, e := range errs {
		if strings.Contains(e.Path, field) || strings.Contains(e.Message, `"`+field+`"`) {
			return true
		}
	}
	return false
}
