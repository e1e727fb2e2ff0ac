package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/storage"
)

type BackupController struct {
	slots   *storage.Store
	profile *profile.Store
}

func NewBackupController(slots *storage.Store, profileStore *profile.Store) *BackupController {
	return &BackupController{
		slots:   slots,
		profile: profileStore,
	}
}

// BackupDocument is the export format: every slot keyed by name.
type BackupDocument struct {
	ExportedAt string            `json:"exportedAt"`
	Slots      map[string]string `json:"slots"`
}

// Export dumps all slots and stamps the last-backup marker.
func (controller *BackupController) Export(c *gin.Context) {
	slots, err := controller.slots.All()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	if err := controller.profile.MarkBackup(now); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, BackupDocument{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Slots:      slots,
	})
}

// Import restores slots from an exported document, overwriting the
// current values of the keys it carries.
func (controller *BackupController) Import(c *gin.Context) {
	var doc BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(doc.Slots) == 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "backup carries no slots"})
		return
	}

	for key, value := range doc.Slots {
		if err := controller.slots.Set(key, value); err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.IndentedJSON(http.StatusOK, gin.H{"restored": len(doc.Slots)})
}
