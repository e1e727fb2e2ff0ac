// Package profile stores the reader's goals and public profile fields.
package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/storage"
)

// Default reading goals, used until the reader sets their own.
const (
	DefaultMonthlyGoal = 15
	DefaultYearlyGoal  = 50
)

// Goals are the reader's target counts of finished books.
type Goals struct {
	Monthly int `json:"monthly"`
	Yearly  int `json:"yearly"`
}

// Store reads and writes profile slots.
type Store struct {
	slots *storage.Store
}

func NewStore(slots *storage.Store) *Store {
	return &Store{slots: slots}
}

// Goals returns the stored reading goals. A missing or unreadable slot
// falls back to the default for that goal.
func (s *Store) Goals() Goals {
	return Goals{
		Monthly: s.goal(entities.SlotKeyMonthlyGoal, DefaultMonthlyGoal),
		Yearly:  s.goal(entities.SlotKeyYearlyGoal, DefaultYearlyGoal),
	}
}

func (s *Store) goal(key string, fallback int) int {
	raw, err := s.slots.Get(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// SetGoals stores both reading goals. Goals must be positive.
func (s *Store) SetGoals(g Goals) error {
	if g.Monthly <= 0 || g.Yearly <= 0 {
		return fmt.Errorf("goals must be positive: monthly=%d yearly=%d", g.Monthly, g.Yearly)
	}
	if err := s.slots.Set(entities.SlotKeyMonthlyGoal, strconv.Itoa(g.Monthly)); err != nil {
		return err
	}
	return s.slots.Set(entities.SlotKeyYearlyGoal, strconv.Itoa(g.Yearly))
}

// Nickname returns the display name, empty when unset.
func (s *Store) Nickname() string {
	return s.text(entities.SlotKeyNickname)
}

func (s *Store) SetNickname(name string) error {
	return s.slots.Set(entities.SlotKeyNickname, name)
}

// Intro returns the profile introduction, empty when unset.
func (s *Store) Intro() string {
	return s.text(entities.SlotKeyIntro)
}

func (s *Store) SetIntro(intro string) error {
	return s.slots.Set(entities.SlotKeyIntro, intro)
}

// LastBackup returns when a backup was last exported, or the zero time.
func (s *Store) LastBackup() time.Time {
	raw, err := s.slots.Get(entities.SlotKeyLastBackup)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// MarkBackup stamps the last-backup marker with the given time.
func (s *Store) MarkBackup(at time.Time) error {
	return s.slots.Set(entities.SlotKeyLastBackup, at.UTC().Format(time.RFC3339))
}

func (s *Store) text(key string) string {
	raw, err := s.slots.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return ""
	}
	if err != nil {
		return ""
	}
	return raw
}
