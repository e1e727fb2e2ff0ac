package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/profile"
)

type SettingsController struct {
	profile *profile.Store
}

func NewSettingsController(profileStore *profile.Store) *SettingsController {
	return &SettingsController{profile: profileStore}
}

// GetProfile returns the reader's profile and goals.
func (controller *SettingsController) GetProfile(c *gin.Context) {
	var lastBackup string
	if t := controller.profile.LastBackup(); !t.IsZero() {
		lastBackup = t.Format(time.RFC3339)
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"nickname":   controller.profile.Nickname(),
		"intro":      controller.profile.Intro(),
		"goals":      controller.profile.Goals(),
		"lastBackup": lastBackup,
	})
}

type ProfileRequest struct {
	Nickname string `json:"nickname"`
	Intro    string `json:"intro"`
}

// UpdateProfile stores the nickname and introduction.
func (controller *SettingsController) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := controller.profile.SetNickname(req.Nickname); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := controller.profile.SetIntro(req.Intro); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"nickname": req.Nickname, "intro": req.Intro})
}

type GoalsRequest struct {
	Monthly int `json:"monthly" binding:"required,gt=0"`
	Yearly  int `json:"yearly" binding:"required,gt=0"`
}

// UpdateGoals stores the monthly and yearly reading goals.
func (controller *SettingsController) UpdateGoals(c *gin.Context) {
	var req GoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goals := profile.Goals{Monthly: req.Monthly, Yearly: req.Yearly}
	if err := controller.profile.SetGoals(goals); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, goals)
}
