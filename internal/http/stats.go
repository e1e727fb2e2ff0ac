package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/shelf"
	"github.com/tpqls774/libris/internal/stats"
)

type StatsController struct {
	shelf   *shelf.Store
	profile *profile.Store
}

func NewStatsController(store *shelf.Store, profileStore *profile.Store) *StatsController {
	return &StatsController{
		shelf:   store,
		profile: profileStore,
	}
}

// GetOverview returns the full aggregation of the collection.
func (controller *StatsController) GetOverview(c *gin.Context) {
	books, err := controller.shelf.Load()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	overview := stats.Compute(books, controller.profile.Goals(), time.Now())
	c.IndentedJSON(http.StatusOK, overview)
}
