package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/notify"
)

type NotificationsController struct {
	recorder *notify.Recorder
}

func NewNotificationsController(recorder *notify.Recorder) *NotificationsController {
	return &NotificationsController{recorder: recorder}
}

// GetNotifications lists stored notifications, newest first.
func (controller *NotificationsController) GetNotifications(c *gin.Context) {
	list, err := controller.recorder.List()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	unread, err := controller.recorder.UnreadCount()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"notifications": list,
		"count":         len(list),
		"unread":        unread,
	})
}

// MarkRead marks one notification as read.
func (controller *NotificationsController) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := controller.recorder.MarkRead(id); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead marks every notification as read.
func (controller *NotificationsController) MarkAllRead(c *gin.Context) {
	if err := controller.recorder.MarkAllRead(); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSettings returns the per-category notification toggles.
func (controller *NotificationsController) GetSettings(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.recorder.Settings())
}

// UpdateSettings stores the per-category notification toggles.
func (controller *NotificationsController) UpdateSettings(c *gin.Context) {
	var settings entities.NotificationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := controller.recorder.SaveSettings(settings); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, settings)
}
