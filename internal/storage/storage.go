// Package storage provides the slot store: a SQLite-backed key/value
// table holding one JSON document per key. Higher layers own the
// document shapes; this package only moves strings in and out.
package storage

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tpqls774/libris/internal/entities"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("storage: slot not found")

// Store gives access to the persisted slots.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the slot database at path.
// Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open slot database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Slot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate slot database: %w", err)
	}

	log.Printf("Slot store initialized at %s", path)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var slot entities.Slot
	err := s.db.Where("key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return slot.Value, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key, value string) error {
	var slot entities.Slot
	result := s.db.Where("key = ?", key).First(&slot)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		slot = entities.Slot{
			Key:   key,
			Value: value,
		}
		return s.db.Create(&slot).Error
	} else if result.Error != nil {
		return result.Error
	}

	slot.Value = value
	return s.db.Save(&slot).Error
}

// Delete removes the slot under key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&entities.Slot{}).Error
}

// All returns every stored slot as a key -> value map.
func (s *Store) All() (map[string]string, error) {
	var slots []entities.Slot
	if err := s.db.Find(&slots).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(slots))
	for _, slot := range slots {
		out[slot.Key] = slot.Value
	}
	return out, nil
}
