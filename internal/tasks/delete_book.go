package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// BookDeleter removes a book from the shelf by id. Deleting an id that
// is already gone must be a no-op so retries stay safe.
type BookDeleter interface {
	Delete(id int) error
}

// DeleteBookTask removes one book after a short delay, giving the
// reader a moment to change their mind.
type DeleteBookTask struct {
	BookID int `json:"book_id"`
}

// Config returns the queue configuration for deferred deletes.
func (t DeleteBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "delete_book",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DeleteBookProcessor creates a processor function for DeleteBookTask.
func DeleteBookProcessor(deleter BookDeleter) backlite.QueueProcessor[DeleteBookTask] {
	return func(ctx context.Context, task DeleteBookTask) error {
		if deleter == nil {
			return fmt.Errorf("book deleter not configured")
		}

		if err := deleter.Delete(task.BookID); err != nil {
			return fmt.Errorf("delete book %d: %w", task.BookID, err)
		}

		log.Printf("[TASK] Deleted book %d", task.BookID)
		return nil
	}
}

// NewDeleteBookQueue creates a backlite queue for deferred deletes.
func NewDeleteBookQueue(deleter BookDeleter) backlite.Queue {
	return backlite.NewQueue(DeleteBookProcessor(deleter))
}
