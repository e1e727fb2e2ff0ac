// Package scheduler runs calendar-driven jobs, currently the monthly
// reading report.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/shelf"
)

// ReportNotifier records the monthly summary notification.
type ReportNotifier interface {
	MonthlyReport(month int, booksRead int) error
}

// MonthlyReportScheduler posts a reading summary for the previous
// month on a cron schedule, by default early on the 1st.
type MonthlyReportScheduler struct {
	store    *shelf.Store
	notifier ReportNotifier
	schedule string
	enabled  bool
	now      func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewMonthlyReportScheduler creates a new scheduler instance.
func NewMonthlyReportScheduler(store *shelf.Store, notifier ReportNotifier, schedule string, enabled bool) *MonthlyReportScheduler {
	return &MonthlyReportScheduler{
		store:    store,
		notifier: notifier,
		schedule: schedule,
		enabled:  enabled,
		now:      time.Now,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the monthly report is enabled.
func (s *MonthlyReportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Monthly report scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runReport()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule monthly report: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Monthly report scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *MonthlyReportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Monthly report scheduler: stopped")
}

// RunNow triggers an immediate report.
func (s *MonthlyReportScheduler) RunNow() {
	go s.runReport()
}

// IsRunning returns whether the scheduler is active.
func (s *MonthlyReportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next report will be posted.
func (s *MonthlyReportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runReport counts the books finished in the previous month and
// records the summary notification.
func (s *MonthlyReportScheduler) runReport() {
	now := s.now()
	month, count, err := s.previousMonthCount(now)
	if err != nil {
		log.Printf("Monthly report: failed to count finished books: %v", err)
		return
	}

	if err := s.notifier.MonthlyReport(month, count); err != nil {
		log.Printf("Monthly report: failed to record notification: %v", err)
		return
	}

	log.Printf("Monthly report: posted summary for month %d (%d books)", month, count)
}

func (s *MonthlyReportScheduler) previousMonthCount(now time.Time) (int, int, error) {
	books, err := s.store.Load()
	if err != nil {
		return 0, 0, err
	}

	prev := now.AddDate(0, -1, -now.Day()+1)
	count := 0
	for _, b := range books {
		if b.Status != entities.StatusFinished {
			continue
		}
		d, err := time.Parse(entities.DateLayout, b.Date)
		if err != nil {
			continue
		}
		if d.Year() == prev.Year() && d.Month() == prev.Month() {
			count++
		}
	}

	return int(prev.Month()), count, nil
}
