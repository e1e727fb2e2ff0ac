package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tpqls774/libris/internal/entities"
)

// registerValidations adds the shelf-specific validation tags to gin's
// request binding.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reading_status", func(fl validator.FieldLevel) bool {
			return entities.Status(fl.Field().String()).Valid()
		})
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidations()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	if cfg.Metrics != nil {
		router.Use(MetricsMiddleware(cfg.Metrics))
	}

	// Create controllers with appropriate dependencies
	health := NewHealthController(cfg.Slots, cfg.Version)
	booksController := NewBooksController(cfg.Shelf, cfg.TaskClient, cfg.DeleteDelay)
	notesController := NewNotesController(cfg.Shelf, cfg.Coach, cfg.Metrics)
	statsController := NewStatsController(cfg.Shelf, cfg.Profile)
	searchController := NewSearchController(cfg.Searcher, cfg.Metrics)
	notificationsController := NewNotificationsController(cfg.Recorder)
	settingsController := NewSettingsController(cfg.Profile)
	backupController := NewBackupController(cfg.Slots, cfg.Profile)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Metrics endpoint
	if cfg.Gatherer != nil {
		router.GET("/metrics", MetricsHandler(cfg.Gatherer))
	}

	// Books API endpoints
	router.GET("/api/books", booksController.GetBooks)
	router.GET("/api/books/facets", booksController.GetFacets)
	router.GET("/api/books/recent", booksController.GetRecentActivity)
	router.POST("/api/books", booksController.AddBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.PATCH("/api/books/:id/rating", booksController.SetRating)
	router.PATCH("/api/books/:id/status", booksController.SetStatus)
	router.PATCH("/api/books/:id/review", booksController.SetReview)
	router.PATCH("/api/books/:id/reading-time", booksController.SetReadingTime)
	router.POST("/api/books/:id/quotes", booksController.AddQuote)
	router.DELETE("/api/books/:id/quotes/:index", booksController.RemoveQuote)

	// Notes endpoints
	router.GET("/api/notes", notesController.GetNotes)
	router.DELETE("/api/notes/:id", notesController.DeleteReview)
	router.POST("/api/coach", notesController.CoachReview)

	// Stats endpoint
	router.GET("/api/stats", statsController.GetOverview)

	// Catalog search endpoint
	router.GET("/api/search", searchController.Search)

	// Notification endpoints
	router.GET("/api/notifications", notificationsController.GetNotifications)
	router.POST("/api/notifications/:id/read", notificationsController.MarkRead)
	router.POST("/api/notifications/read-all", notificationsController.MarkAllRead)
	router.GET("/api/notifications/settings", notificationsController.GetSettings)
	router.PUT("/api/notifications/settings", notificationsController.UpdateSettings)

	// Profile and goals endpoints
	router.GET("/api/profile", settingsController.GetProfile)
	router.PUT("/api/profile", settingsController.UpdateProfile)
	router.PUT("/api/goals", settingsController.UpdateGoals)

	// Backup endpoints
	router.GET("/api/backup", backupController.Export)
	router.POST("/api/backup", backupController.Import)

	return router
}
