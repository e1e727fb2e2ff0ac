// Package notify records in-app notifications and raises optional
// platform alerts for shelf events.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/storage"
)

// maxStored caps the notification list; the oldest entries are evicted.
const maxStored = 50

// Permission is the platform alert permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Alerter raises a platform-level alert outside the app.
type Alerter interface {
	Alert(title, body string) error
}

// LogAlerter writes alerts to the process log. It stands in where no
// desktop notification backend is available.
type LogAlerter struct{}

func (LogAlerter) Alert(title, body string) error {
	log.Printf("ALERT: %s: %s", title, body)
	return nil
}

// Recorder stores notifications newest first and mirrors them to the
// platform alerter when permission is granted.
type Recorder struct {
	slots      *storage.Store
	alerter    Alerter
	permission Permission
	now        func() time.Time

	mu     sync.Mutex
	lastID int64
	subs   []func()
}

func NewRecorder(slots *storage.Store, alerter Alerter, permission Permission) *Recorder {
	if permission == "" {
		permission = PermissionDefault
	}
	return &Recorder{
		slots:      slots,
		alerter:    alerter,
		permission: permission,
		now:        time.Now,
	}
}

// Subscribe registers fn to run after every notification mutation.
func (r *Recorder) Subscribe(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

func (r *Recorder) broadcast() {
	r.mu.Lock()
	subs := make([]func(), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// List returns the stored notifications, newest first. Missing or
// unreadable state degrades to an empty list.
func (r *Recorder) List() ([]entities.Notification, error) {
	raw, err := r.slots.Get(entities.SlotKeyNotifications)
	if errors.Is(err, storage.ErrNotFound) {
		return []entities.Notification{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	var list []entities.Notification
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Notifications slot is corrupt, starting empty: %v", err)
		return []entities.Notification{}, nil
	}
	return list, nil
}

func (r *Recorder) save(list []entities.Notification) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	return r.slots.Set(entities.SlotKeyNotifications, string(raw))
}

// Record stores n with a fresh id and timestamp, evicting the oldest
// entry once the cap is reached, then mirrors it to the alerter.
func (r *Recorder) Record(n entities.Notification) (entities.Notification, error) {
	r.mu.Lock()

	list, err := r.List()
	if err != nil {
		r.mu.Unlock()
		return entities.Notification{}, err
	}

	now := r.now()
	n.ID = now.UnixMilli()
	if n.ID <= r.lastID {
		n.ID = r.lastID + 1
	}
	r.lastID = n.ID
	n.Timestamp = now.UTC().Format(time.RFC3339)
	n.Read = false

	list = append([]entities.Notification{n}, list...)
	if len(list) > maxStored {
		list = list[:maxStored]
	}

	if err := r.save(list); err != nil {
		r.mu.Unlock()
		return entities.Notification{}, err
	}
	r.mu.Unlock()

	r.broadcast()
	r.alert(n)
	return n, nil
}

// alert mirrors the notification to the platform only when permission
// was granted. Denied or undecided permission keeps it in-app only.
func (r *Recorder) alert(n entities.Notification) {
	if r.permission != PermissionGranted || r.alerter == nil {
		return
	}
	if err := r.alerter.Alert(n.Title, n.Body); err != nil {
		log.Printf("Platform alert failed: %v", err)
	}
}

// MarkRead marks one notification as read. Unknown ids are a no-op.
func (r *Recorder) MarkRead(id int64) error {
	return r.mutate(func(list []entities.Notification) {
		for i := range list {
			if list[i].ID == id {
				list[i].Read = true
				return
			}
		}
	})
}

// MarkAllRead marks every stored notification as read.
func (r *Recorder) MarkAllRead() error {
	return r.mutate(func(list []entities.Notification) {
		for i := range list {
			list[i].Read = true
		}
	})
}

func (r *Recorder) mutate(fn func([]entities.Notification)) error {
	r.mu.Lock()

	list, err := r.List()
	if err != nil {
		r.mu.Unlock()
		return err
	}

	fn(list)

	if err := r.save(list); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.broadcast()
	return nil
}

// UnreadCount returns how many stored notifications are unread.
func (r *Recorder) UnreadCount() (int, error) {
	list, err := r.List()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// Settings returns the per-category toggles, all enabled by default.
func (r *Recorder) Settings() entities.NotificationSettings {
	raw, err := r.slots.Get(entities.SlotKeyNotificationSettings)
	if err != nil {
		return entities.DefaultNotificationSettings()
	}
	var s entities.NotificationSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Printf("Notification settings slot is corrupt, using defaults: %v", err)
		return entities.DefaultNotificationSettings()
	}
	return s
}

// SaveSettings stores the per-category toggles.
func (r *Recorder) SaveSettings(s entities.NotificationSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode notification settings: %w", err)
	}
	if err := r.slots.Set(entities.SlotKeyNotificationSettings, string(raw)); err != nil {
		return err
	}
	r.broadcast()
	return nil
}
