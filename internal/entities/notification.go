package entities

type NotificationType string

const (
	NotificationBookAdded     NotificationType = "book_added"
	NotificationGoalAchieved  NotificationType = "goal_achieved"
	NotificationReadingStreak NotificationType = "reading_streak"
	NotificationMonthlyReport NotificationType = "monthly_report"
)

// Notification is one in-app notification. The stored list keeps the
// newest entry first and is capped at a fixed size.
type Notification struct {
	ID        int64            `json:"id"`
	Timestamp string           `json:"timestamp"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Read      bool             `json:"read"`

	// Event-specific fields, set depending on Type.
	BookTitle    string `json:"bookTitle,omitempty"`
	GoalType     string `json:"goalType,omitempty"`
	CurrentValue int    `json:"currentValue,omitempty"`
	TargetValue  int    `json:"targetValue,omitempty"`
	StreakDays   int    `json:"streakDays,omitempty"`
	Month        int    `json:"month,omitempty"`
	BooksRead    int    `json:"booksRead,omitempty"`
}

// NotificationSettings holds the per-category notification toggles.
type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	MonthlyReport      bool `json:"monthlyReport"`
	GoalReminder       bool `json:"goalReminder"`
	ReadingStreak      bool `json:"readingStreak"`
	BookAdded          bool `json:"bookAdded"`
	GoalAchieved       bool `json:"goalAchieved"`
}

// DefaultNotificationSettings returns the all-enabled defaults used
// when no settings have been stored yet.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailNotifications: true,
		MonthlyReport:      true,
		GoalReminder:       true,
		ReadingStreak:      true,
		BookAdded:          true,
		GoalAchieved:       true,
	}
}
