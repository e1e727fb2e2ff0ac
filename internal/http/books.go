package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/query"
	"github.com/tpqls774/libris/internal/shelf"
	"github.com/tpqls774/libris/internal/tasks"
)

type BooksController struct {
	shelf       *shelf.Store
	taskClient  *tasks.Client
	deleteDelay time.Duration
}

func NewBooksController(store *shelf.Store, taskClient *tasks.Client, deleteDelay time.Duration) *BooksController {
	return &BooksController{
		shelf:       store,
		taskClient:  taskClient,
		deleteDelay: deleteDelay,
	}
}

// GetBooks lists the collection, optionally filtered by q, genre,
// status and window query parameters.
func (controller *BooksController) GetBooks(c *gin.Context) {
	books, err := controller.shelf.Load()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	books = query.Search(books, c.Query("q"))
	books = query.FilterGenre(books, c.Query("genre"))
	books = query.FilterStatus(books, c.Query("status"))
	if w := c.Query("window"); w != "" {
		books = query.FilterWindow(books, query.Window(w), time.Now())
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetFacets lists the filter values present in the collection.
func (controller *BooksController) GetFacets(c *gin.Context) {
	books, err := controller.shelf.Load()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"genres":   query.Genres(books),
		"statuses": query.Statuses(books),
	})
}

// GetRecentActivity lists the most recently added finished books.
func (controller *BooksController) GetRecentActivity(c *gin.Context) {
	books, err := controller.shelf.Load()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recent := query.RecentActivity(books, limit)
	c.IndentedJSON(http.StatusOK, gin.H{"books": recent, "count": len(recent)})
}

type AddBookRequest struct {
	Volume          catalog.VolumeInfo `json:"volume" binding:"required"`
	ManualPageCount string             `json:"manualPageCount"`
}

// AddBook adds a catalog volume to the shelf. A duplicate title and
// author pair answers 409 so the client can show its added state.
func (controller *BooksController) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Volume.Title == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "volume title is required"})
		return
	}

	book, err := controller.shelf.Add(req.Volume, req.ManualPageCount)
	if errors.Is(err, shelf.ErrDuplicate) {
		c.IndentedJSON(http.StatusConflict, gin.H{"state": "already_added"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusCreated, book)
}

// GetBook returns one book by id.
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := controller.shelf.Get(id)
	if errors.Is(err, shelf.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// DeleteBook removes a book. With a task queue the delete is deferred
// for a short grace period and the request answers 202; without one it
// runs inline.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if controller.taskClient != nil {
		op := controller.taskClient.Add(tasks.DeleteBookTask{BookID: id})
		if controller.deleteDelay > 0 {
			op = op.At(time.Now().Add(controller.deleteDelay))
		}
		if _, err := op.Save(); err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.IndentedJSON(http.StatusAccepted, gin.H{"state": "pending"})
		return
	}

	if err := controller.shelf.Delete(id); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type RatingRequest struct {
	Rating *float64 `json:"rating" binding:"required,gte=0,lte=5"`
}

// SetRating stores a star rating on a book.
func (controller *BooksController) SetRating(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := controller.shelf.SetRating(id, *req.Rating)
	controller.respondUpdated(c, book, err)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,reading_status"`
	Date   string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SetStatus moves a book to a new reading status.
func (controller *BooksController) SetStatus(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := controller.shelf.SetStatus(id, entities.Status(req.Status), req.Date)
	controller.respondUpdated(c, book, err)
}

type ReviewRequest struct {
	Review *string `json:"review" binding:"required"`
}

// SetReview replaces the review text. An empty string clears it.
func (controller *BooksController) SetReview(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := controller.shelf.SetReview(id, *req.Review)
	controller.respondUpdated(c, book, err)
}

type QuoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddQuote appends a quote to a book.
func (controller *BooksController) AddQuote(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := controller.shelf.AddQuote(id, req.Text)
	controller.respondUpdated(c, book, err)
}

// RemoveQuote deletes the quote at the given index.
func (controller *BooksController) RemoveQuote(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid quote index"})
		return
	}

	book, err := controller.shelf.RemoveQuote(id, index)
	controller.respondUpdated(c, book, err)
}

type ReadingTimeRequest struct {
	StartDate    string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	TotalHours   int    `json:"totalHours" binding:"gte=0"`
	TotalMinutes int    `json:"totalMinutes" binding:"gte=0,lte=59"`
}

// SetReadingTime records when a book was read and for how long.
func (controller *BooksController) SetReadingTime(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req ReadingTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := controller.shelf.SetReadingTime(id, entities.ReadingTime{
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TotalHours:   req.TotalHours,
		TotalMinutes: req.TotalMinutes,
	})
	controller.respondUpdated(c, book, err)
}

func (controller *BooksController) respondUpdated(c *gin.Context, book entities.Book, err error) {
	if errors.Is(err, shelf.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// bookID parses the :id path parameter, answering 400 on garbage.
func bookID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return 0, false
	}
	return id, true
}
