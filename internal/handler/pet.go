package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/paginate"
	"github.com/maxviazov/openapi-skeleton/internal/serializer"
	"github.com/maxviazov/openapi-skeleton/internal/service"
	"github.com/maxviazov/openapi-skeleton/pkg/response"
)

const (
	serviceTimeout = 5 * time.Second
	speciesFilter  = "filter[species]"
)

type PetHandler struct {
	svc       service.PetService
	publicURL string
}

// NewPetHandler builds the pets handler. publicURL anchors the links in
// responses; empty means the host the request arrived on.
func NewPetHandler(svc service.PetService, publicURL string) *PetHandler {
	return &PetHandler{svc: svc, publicURL: publicURL}
}

func (h *PetHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/pets")
	{
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
	}
}

func (h *PetHandler) list(c *gin.Context) {
	// flat keys: page[number] is a literal parameter name, not a nested object
	page, err := service.ParsePage(c.DefaultQuery(paginate.NumberParam, "1"), c.Query(paginate.SizeParam))
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	links := paginate.NewURIBuilder(h.publicURL, c.Request)
	res, err := h.svc.ListPets(ctx, service.PetQuery{Species: c.Query(speciesFilter)}, page, links.PageLink)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, serializer.SerializePets(res, links.Self(), func(id string) string {
		return links.Resource(id)
	}))
}

func (h *PetHandler) getByID(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	pet, err := h.svc.GetPet(ctx, id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	links := paginate.NewURIBuilder(h.publicURL, c.Request)
	self := links.Resource()
	response.WriteData(c, http.StatusOK, serializer.SerializePet(pet, self, func(string) string { return self }))
}
