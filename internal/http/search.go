package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/metrics"
)

type SearchController struct {
	searcher SearchProvider
	metrics  metrics.Recorder
}

func NewSearchController(searcher SearchProvider, recorder metrics.Recorder) *SearchController {
	return &SearchController{
		searcher: searcher,
		metrics:  recorder,
	}
}

// Search proxies a debounced catalog search. A request replaced by a
// newer query answers 204 so stale results never reach the client.
func (controller *SearchController) Search(c *gin.Context) {
	if controller.searcher == nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": "catalog search is not configured"})
		return
	}

	q := c.Query("q")
	if q == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	volumes, err := controller.searcher.Search(c.Request.Context(), q)
	if errors.Is(err, catalog.ErrSuperseded) {
		controller.recordSearch(true)
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": "catalog search failed, try again"})
		return
	}

	controller.recordSearch(false)
	c.IndentedJSON(http.StatusOK, gin.H{"items": volumes, "count": len(volumes)})
}

func (controller *SearchController) recordSearch(superseded bool) {
	if controller.metrics != nil {
		controller.metrics.RecordCatalogSearch(superseded)
	}
}
