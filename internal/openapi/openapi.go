// Package openapi loads the service's OpenAPI document and exposes the
// route descriptors and schema checks the HTTP middleware needs.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

// ErrInvalidResponse marks a response body that does not match its declared schema.
var ErrInvalidResponse = errors.New("invalid response")

// ValidationError carries the schema errors of a rejected response and the
// status code the handler originally tried to send.
type ValidationError struct {
	Status  int
	Errors  []SchemaError
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrInvalidResponse }

// SchemaError is a single schema violation.
type SchemaError struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Outcome is the result of checking one outgoing response.
type Outcome struct {
	Valid   bool
	Errors  []SchemaError
	Message string
}

// Document is a loaded and validated OpenAPI 3 document.
type Document struct {
	spec     *openapi3.T
	basePath string
}

// Route identifies one operation of the document.
type Route struct {
	Method string
	Path   string
	route  *routers.Route
}

// Load parses and validates raw YAML or JSON.
func Load(ctx context.Context, data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &Document{spec: spec, basePath: basePathOf(spec)}, nil
}

func basePathOf(spec *openapi3.T) string {
	if len(spec.Servers) == 0 || spec.Servers[0] == nil {
		return ""
	}
	u, err := url.Parse(spec.Servers[0].URL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

// Title is info.title.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// BasePath is the path of the first declared server, e.g. "/api/v1".
func (d *Document) BasePath() string { return d.basePath }

// FindRoute resolves a gin route pattern ("/api/v1/pets/:id") to the
// document operation declared under "/pets/{id}".
func (d *Document) FindRoute(method, fullPath string) (*Route, bool) {
	if fullPath == "" || d.spec.Paths == nil {
		return nil, false
	}
	p := fullPath
	if d.basePath != "" {
		if !strings.HasPrefix(p, d.basePath) {
			return nil, false
		}
		p = strings.TrimPrefix(p, d.basePath)
	}
	if p == "" {
		p = "/"
	}
	tmpl := pathTemplate(p)

	item := d.spec.Paths.Value(tmpl)
	if item == nil {
		return nil, false
	}
	op := item.GetOperation(method)
	if op == nil {
		return nil, false
	}
	return &Route{
		Method: method,
		Path:   tmpl,
		route: &routers.Route{
			Spec:      d.spec,
			Path:      tmpl,
			PathItem:  item,
			Method:    method,
			Operation: op,
		},
	}, true
}

// pathTemplate turns gin wildcards (":id", "*rest") into OpenAPI templates.
func pathTemplate(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if len(s) > 1 && (s[0] == ':' || s[0] == '*') {
			segs[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}

// ValidateRequest checks path and query parameters against the operation.
// It returns nil when the request conforms.
func (d *Document) ValidateRequest(ctx context.Context, req *http.Request, route *Route, pathParams map[string]string) []SchemaError {
	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route.route,
		Options: &openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return flatten(err, nil)
	}
	return nil
}

// ValidateResponse checks a response about to be sent. Statuses without a
// declared schema pass.
func (d *Document) ValidateResponse(ctx context.Context, req *http.Request, route *Route, status int, header http.Header, body []byte) Outcome {
	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request: req,
			Route:   route.route,
		},
		Status: status,
		Header: header,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}
	input.SetBodyBytes(body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return Outcome{Valid: false, Errors: flatten(err, nil), Message: err.Error()}
	}
	return Outcome{Valid: true}
}

func flatten(err error, out []SchemaError) []SchemaError {
	switch e := err.(type) {
	case nil:
		return out
	case openapi3.MultiError:
		for _, inner := range e {
			out = flatten(inner, out)
		}
	case *openapi3filter.RequestError:
		field := ""
		if e.Parameter != nil {
			field = e.Parameter.Name
		}
		before := len(out)
		out = flatten(e.Err, out)
		if len(out) == before {
			out = append(out, SchemaError{Message: e.Reason})
		}
		for i := before; i < len(out); i++ {
			if field != "" {
				out[i].Field = field
			}
		}
	case *openapi3filter.ResponseError:
		before := len(out)
		out = flatten(e.Err, out)
		if len(out) == before {
			out = append(out, SchemaError{Message: e.Reason})
		}
	case *openapi3.SchemaError:
		se := SchemaError{Rule: e.SchemaField, Message: e.Reason, Value: e.Value}
		if ptr := e.JSONPointer(); len(ptr) > 0 {
			se.Path = "/" + strings.Join(ptr, "/")
		}
		if se.Message == "" {
			se.Message = e.Error()
		}
		out = append(out, se)
	default:
		out = append(out, SchemaError{Message: err.Error()})
	}
	return out
}
