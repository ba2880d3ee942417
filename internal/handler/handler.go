package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/auth"
	"github.com/maxviazov/openapi-skeleton/internal/middleware"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"github.com/maxviazov/openapi-skeleton/internal/service"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
	"github.com/rs/zerolog"
)

// Deps is everything the public engine is built from.
type Deps struct {
	Doc              *openapi.Document
	Pets             service.PetService
	Pinger           Pinger
	Auth             auth.Authenticator
	Logger           zerolog.Logger
	PublicURL        string
	StrictValidation bool
	ValidateRequests bool
}

// NewPublic builds the public engine.
func NewPublic(d Deps) *gin.Engine {
	r := gin.New()
	Register(r, d)
	return r
}

// Register mounts all public routes on the given engine. Health and docs sit
// at the root; the API lives under the document's base path behind
// authentication and the OpenAPI checks.
func Register(r *gin.Engine, d Deps) {
	if d.Auth == nil {
		d.Auth = auth.AllowAll
	}
	r.Use(middleware.RequestLogger(d.Logger), middleware.Recovery(d.Logger))

	h := NewHealthHandler(d.Pinger)
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)
	RegisterDocs(r)

	api := r.Group(basePathOr(d.Doc.BasePath()))
	api.Use(
		middleware.ResponseValidator(d.Doc, d.StrictValidation, d.Logger),
		middleware.Authentication(d.Auth),
	)
	if d.ValidateRequests {
		api.Use(middleware.RequestValidator(d.Doc))
	}
	NewPetHandler(d.Pets, d.PublicURL).Register(api)

	r.NoRoute(func(c *gin.Context) {
		response.WriteError(c, repository.ErrNotFound)
	})
}

// AdminDeps is everything the admin engine is built from.
type AdminDeps struct {
	Name     string
	BasePath string
	Auth     auth.Authenticator
	Logger   zerolog.Logger
}

// NewAdmin builds the admin engine: build metadata at the base path, behind
// authentication.
func NewAdmin(d AdminDeps) *gin.Engine {
	if d.Auth == nil {
		d.Auth = auth.AllowAll
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger), middleware.Recovery(d.Logger))
	r.GET(basePathOr(d.BasePath), middleware.Authentication(d.Auth), NewAdminHandler(d.Name).Meta)
	r.NoRoute(func(c *gin.Context) {
		response.WriteError(c, repository.ErrNotFound)
	})
	return r
}
