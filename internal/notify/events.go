package notify

import (
	"fmt"

	"github.com/tpqls774/libris/internal/entities"
)

// BookAdded records a book-added notification unless the category is
// switched off.
func (r *Recorder) BookAdded(title string) error {
	if !r.Settings().BookAdded {
		return nil
	}
	_, err := r.Record(entities.Notification{
		Type:      entities.NotificationBookAdded,
		Title:     "Book added",
		Body:      fmt.Sprintf("%q is now on your shelf.", title),
		BookTitle: title,
	})
	return err
}

// GoalAchieved records a goal-achieved notification for the monthly or
// yearly goal unless the category is switched off.
func (r *Recorder) GoalAchieved(goalType string, current, target int) error {
	if !r.Settings().GoalAchieved {
		return nil
	}
	_, err := r.Record(entities.Notification{
		Type:         entities.NotificationGoalAchieved,
		Title:        "Reading goal achieved",
		Body:         fmt.Sprintf("You reached your %s goal: %d of %d books.", goalType, current, target),
		GoalType:     goalType,
		CurrentValue: current,
		TargetValue:  target,
	})
	return err
}

// ReadingStreak records a streak notification unless the category is
// switched off.
func (r *Recorder) ReadingStreak(days int) error {
	if !r.Settings().ReadingStreak {
		return nil
	}
	_, err := r.Record(entities.Notification{
		Type:       entities.NotificationReadingStreak,
		Title:      "Reading streak",
		Body:       fmt.Sprintf("You have read %d days in a row. Keep going!", days),
		StreakDays: days,
	})
	return err
}

// MonthlyReport records the monthly summary unless the category is
// switched off.
func (r *Recorder) MonthlyReport(month int, booksRead int) error {
	if !r.Settings().MonthlyReport {
		return nil
	}
	_, err := r.Record(entities.Notification{
		Type:      entities.NotificationMonthlyReport,
		Title:     "Monthly reading report",
		Body:      fmt.Sprintf("You finished %d books last month.", booksRead),
		Month:     month,
		BooksRead: booksRead,
	})
	return err
}
