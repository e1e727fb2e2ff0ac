package entities

import (
	"time"
)

// Slot is one named persisted value. All application state is stored
// as JSON-serialized documents in slots, one document per key.
type Slot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Slot) TableName() string {
	return "slots"
}

// Known slot keys. The names match the original shelf export format.
const (
	SlotKeyBooks                = "bookshelf_books"
	SlotKeyNotificationSettings = "bookshelf_notifications"
	SlotKeyNotifications        = "bookshelf_inapp_notifications"
	SlotKeyMonthlyGoal          = "bookshelf_monthlyGoal"
	SlotKeyYearlyGoal           = "bookshelf_yearlyGoal"
	SlotKeyIntro                = "bookshelf_intro"
	SlotKeyNickname             = "bookshelf_nickname"
	SlotKeyLastBackup           = "bookshelf_last_backup"
)
