package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/api"
	"github.com/maxviazov/openapi-skeleton/internal/model"
	"github.com/maxviazov/openapi-skeleton/internal/version"
)

// MetaTimeFormat is the layout of meta.time.
const MetaTimeFormat = "2006-01-02 15:04:05-0700"

// AdminHandler reports what is running on the admin listener.
type AdminHandler struct {
	name string
	now  func() time.Time
}

func NewAdminHandler(name string) *AdminHandler {
	return &AdminHandler{name: name, now: time.Now}
}

func (h *AdminHandler) Meta(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{"meta": model.Meta{
		Name:          h.name,
		Time:          now.Format(MetaTimeFormat),
		UnixTime:      now.Unix(),
		Commit:        version.Revision(),
		Documentation: api.SpecFile,
	}})
}
