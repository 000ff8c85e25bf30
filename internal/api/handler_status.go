package api

import (
	"net/http"

	"fjacquet/finance-peres/internal/catalog"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/store"
	"fjacquet/finance-peres/internal/validation"

	"github.com/gin-gonic/gin"
)

type statusResponse struct {
	State string `json:"state"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type statusHandler struct {
	store  *store.Store
	logger logging.Logger
}

func registerStatusRoutes(rg *gin.RouterGroup, deps Dependencies) {
	h := &statusHandler{store: deps.Store, logger: deps.Logger}
	rg.GET("/status", h.status)
	rg.POST("/reload", h.reload)
}

func (h *statusHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		State: string(h.store.Tracker().Current()),
		Count: len(h.store.Snapshot()),
	})
}

// reload re-fetches the remote list. On failure the fallback data is kept and
// the response carries 502 with the resulting local state.
func (h *statusHandler) reload(c *gin.Context) {
	err := h.store.Reload(c.Request.Context())
	resp := statusResponse{
		State: string(h.store.Tracker().Current()),
		Count: len(h.store.Snapshot()),
	}
	if err != nil {
		loggerFrom(c, h.logger).WithError(err).Warn("Reload failed")
		resp.Error = err.Error()
		c.JSON(statusFor(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func registerCategoryRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cat := deps.Catalog
	rg.GET("/categories", func(c *gin.Context) {
		if kindParam := c.Query("kind"); kindParam != "" {
			kind, err := validation.ParseKind(kindParam)
			if err != nil {
				writeError(c, loggerFrom(c, deps.Logger), err)
				return
			}
			c.JSON(http.StatusOK, gin.H{string(kind): cat.ForKind(kind)})
			return
		}
		c.JSON(http.StatusOK, allCategories(cat))
	})
}

func allCategories(cat *catalog.Catalog) map[string][]string {
	out := make(map[string][]string)
	for _, kind := range models.Kinds {
		out[string(kind)] = cat.ForKind(kind)
	}
	return out
}
