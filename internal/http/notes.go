package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/coach"
	"github.com/tpqls774/libris/internal/metrics"
	"github.com/tpqls774/libris/internal/query"
	"github.com/tpqls774/libris/internal/shelf"
)

type NotesController struct {
	shelf   *shelf.Store
	coach   CoachProvider
	metrics metrics.Recorder
}

func NewNotesController(store *shelf.Store, coachClient CoachProvider, recorder metrics.Recorder) *NotesController {
	return &NotesController{
		shelf:   store,
		coach:   coachClient,
		metrics: recorder,
	}
}

// GetNotes lists books with a written review, newest first, optionally
// filtered by q, genre and rating query parameters.
func (controller *NotesController) GetNotes(c *gin.Context) {
	books, err := controller.shelf.Load()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	books = query.SearchNotes(books, c.Query("q"))
	books = query.FilterGenre(books, c.Query("genre"))
	if raw := c.Query("rating"); raw != "" {
		if rating, err := strconv.Atoi(raw); err == nil {
			books = query.FilterRating(books, rating)
		}
	}
	if w := c.Query("window"); w != "" {
		books = query.FilterWindow(books, query.Window(w), time.Now())
	}

	notes := query.Notes(books)
	c.IndentedJSON(http.StatusOK, gin.H{"notes": notes, "count": len(notes)})
}

// DeleteReview clears a book's review, removing it from the notes
// list.
func (controller *NotesController) DeleteReview(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	_, err := controller.shelf.SetReview(id, "")
	if errors.Is(err, shelf.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type CoachRequest struct {
	Content string `json:"content" binding:"required"`
}

// CoachReview asks the reading coach for feedback on note content.
// Upstream failures answer 502 so the client can offer a retry.
func (controller *NotesController) CoachReview(c *gin.Context) {
	if controller.coach == nil {
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": "reading coach is not configured"})
		return
	}

	var req CoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := controller.coach.Review(c.Request.Context(), req.Content)
	if err != nil {
		controller.recordReview(false)
		var parseErr *coach.ParseError
		if errors.As(err, &parseErr) {
			c.IndentedJSON(http.StatusBadGateway, gin.H{
				"error": "coach reply could not be parsed",
				"raw":   parseErr.Raw,
			})
			return
		}
		c.IndentedJSON(http.StatusBadGateway, gin.H{"error": "reading coach is unavailable, try again"})
		return
	}

	controller.recordReview(true)
	c.IndentedJSON(http.StatusOK, feedback)
}

func (controller *NotesController) recordReview(ok bool) {
	if controller.metrics != nil {
		controller.metrics.RecordCoachReview(ok)
	}
}
