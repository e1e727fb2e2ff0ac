package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/tpqls774/libris/internal/stats"
)

// ProgressReporter computes current goal progress.
type ProgressReporter interface {
	GoalProgress() (monthly, yearly stats.GoalProgress, err error)
}

// GoalNotifier records a goal-achieved notification.
type GoalNotifier interface {
	GoalAchieved(goalType string, current, target int) error
}

// GoalCheckTask recomputes reading goal progress after a shelf
// mutation and records a notification when a goal is first reached.
type GoalCheckTask struct{}

// Config returns the queue configuration for goal checks.
func (t GoalCheckTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "goal_check",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// GoalCheckProcessor creates a processor function for GoalCheckTask.
// A goal fires exactly when the completed count reaches the target, so
// books finished past the goal do not re-notify.
func GoalCheckProcessor(reporter ProgressReporter, notifier GoalNotifier) backlite.QueueProcessor[GoalCheckTask] {
	return func(ctx context.Context, task GoalCheckTask) error {
		if reporter == nil || notifier == nil {
			return fmt.Errorf("goal check not configured")
		}

		monthly, yearly, err := reporter.GoalProgress()
		if err != nil {
			return fmt.Errorf("compute goal progress: %w", err)
		}

		if monthly.Completed == monthly.Target {
			if err := notifier.GoalAchieved("monthly", monthly.Completed, monthly.Target); err != nil {
				return fmt.Errorf("record monthly goal: %w", err)
			}
			log.Printf("[TASK] Monthly reading goal reached: %d books", monthly.Completed)
		}

		if yearly.Completed == yearly.Target {
			if err := notifier.GoalAchieved("yearly", yearly.Completed, yearly.Target); err != nil {
				return fmt.Errorf("record yearly goal: %w", err)
			}
			log.Printf("[TASK] Yearly reading goal reached: %d books", yearly.Completed)
		}

		return nil
	}
}

// NewGoalCheckQueue creates a backlite queue for goal checks.
func NewGoalCheckQueue(reporter ProgressReporter, notifier GoalNotifier) backlite.Queue {
	return backlite.NewQueue(GoalCheckProcessor(reporter, notifier))
}
