// Package shelf owns the book collection. All reads and writes go
// through one store that loads the whole collection, applies a change
// and writes it back, serialized by a process-local mutex.
package shelf

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/storage"
)

var (
	// ErrDuplicate is returned when adding a book whose title and
	// author already exist in the collection.
	ErrDuplicate = errors.New("shelf: book already on the shelf")

	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("shelf: book not found")
)

// EventOp says what a change event did to the collection.
type EventOp string

const (
	EventAdded   EventOp = "added"
	EventUpdated EventOp = "updated"
	EventDeleted EventOp = "deleted"
)

// Event is broadcast to subscribers after every successful mutation.
type Event struct {
	Op   EventOp
	Book entities.Book
}

// Store is the collection store over the books slot.
type Store struct {
	slots *storage.Store
	now   func() time.Time

	mu   sync.Mutex
	subs []func(Event)
}

func NewStore(slots *storage.Store) *Store {
	return &Store{
		slots: slots,
		now:   time.Now,
	}
}

// Subscribe registers fn to be called after every mutation. Callbacks
// run synchronously on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) broadcast(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Load returns the whole collection. A missing or unreadable slot
// degrades to an empty collection rather than an error.
func (s *Store) Load() ([]entities.Book, error) {
	raw, err := s.slots.Get(entities.SlotKeyBooks)
	if errors.Is(err, storage.ErrNotFound) {
		return []entities.Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}

	var books []entities.Book
	if err := json.Unmarshal([]byte(raw), &books); err != nil {
		log.Printf("Books slot is corrupt, starting from an empty shelf: %v", err)
		return []entities.Book{}, nil
	}
	return books, nil
}

// Save overwrites the whole collection.
func (s *Store) Save(books []entities.Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode books: %w", err)
	}
	if err := s.slots.Set(entities.SlotKeyBooks, string(raw)); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	return nil
}

// Get returns the book with the given id.
func (s *Store) Get(id int) (entities.Book, error) {
	books, err := s.Load()
	if err != nil {
		return entities.Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return entities.Book{}, ErrNotFound
}

// Add transforms a catalog volume into a record and appends it.
// A record with the same title and author yields ErrDuplicate and
// leaves the collection untouched.
func (s *Store) Add(info catalog.VolumeInfo, manualPageCount string) (entities.Book, error) {
	s.mu.Lock()

	books, err := s.Load()
	if err != nil {
		s.mu.Unlock()
		return entities.Book{}, err
	}

	author := strings.Join(info.Authors, ", ")
	for _, b := range books {
		if b.Title == info.Title && b.Author == author {
			s.mu.Unlock()
			return entities.Book{}, ErrDuplicate
		}
	}

	book := NewBook(books, info, manualPageCount, s.now())
	books = append(books, book)

	if err := s.Save(books); err != nil {
		s.mu.Unlock()
		return entities.Book{}, err
	}
	s.mu.Unlock()

	s.broadcast(Event{Op: EventAdded, Book: book})
	return book, nil
}

// Delete removes the book with the given id. Deleting an id that is
// already gone is a no-op, so a deferred delete can safely re-fire.
func (s *Store) Delete(id int) error {
	s.mu.Lock()

	books, err := s.Load()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var removed *entities.Book
	kept := books[:0]
	for _, b := range books {
		if b.ID == id {
			removed = &b
			continue
		}
		kept = append(kept, b)
	}

	if removed == nil {
		s.mu.Unlock()
		return nil
	}

	if err := s.Save(kept); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.broadcast(Event{Op: EventDeleted, Book: *removed})
	return nil
}

// SetRating stores a 0 to 5 star rating on a book.
func (s *Store) SetRating(id int, rating float64) (entities.Book, error) {
	if rating < 0 || rating > 5 {
		return entities.Book{}, fmt.Errorf("rating out of range: %v", rating)
	}
	return s.update(id, func(b *entities.Book) error {
		b.Rating = rating
		return nil
	})
}

// SetReview replaces a book's review text. An empty string clears it.
func (s *Store) SetReview(id int, text string) (entities.Book, error) {
	return s.update(id, func(b *entities.Book) error {
		b.Review = text
		return nil
	})
}

// SetStatus moves a book to a new reading status and appends the change
// to its history. The same (date, status) pair is recorded only once.
// An empty date means today.
func (s *Store) SetStatus(id int, status entities.Status, date string) (entities.Book, error) {
	if !status.Valid() {
		return entities.Book{}, fmt.Errorf("unknown status: %q", status)
	}
	if date == "" {
		date = s.now().Format(entities.DateLayout)
	} else if _, err := time.Parse(entities.DateLayout, date); err != nil {
		return entities.Book{}, fmt.Errorf("invalid date: %q", date)
	}

	return s.update(id, func(b *entities.Book) error {
		b.Status = status
		if !b.HasStatusChange(date, status) {
			b.StatusHistory = append(b.StatusHistory, entities.StatusChange{
				Date:   date,
				Status: status,
			})
		}
		return nil
	})
}

// AddQuote appends a quote to a book.
func (s *Store) AddQuote(id int, text string) (entities.Book, error) {
	if text == "" {
		return entities.Book{}, fmt.Errorf("empty quote")
	}
	return s.update(id, func(b *entities.Book) error {
		b.Quotes = append(b.Quotes, text)
		return nil
	})
}

// RemoveQuote deletes the quote at index.
func (s *Store) RemoveQuote(id int, index int) (entities.Book, error) {
	return s.update(id, func(b *entities.Book) error {
		if index < 0 || index >= len(b.Quotes) {
			return fmt.Errorf("quote index out of range: %d", index)
		}
		b.Quotes = append(b.Quotes[:index], b.Quotes[index+1:]...)
		return nil
	})
}

// SetReadingTime records when a book was read and for how long.
func (s *Store) SetReadingTime(id int, rt entities.ReadingTime) (entities.Book, error) {
	if rt.TotalHours < 0 || rt.TotalMinutes < 0 || rt.TotalMinutes > 59 {
		return entities.Book{}, fmt.Errorf("invalid reading time: %dh %dm", rt.TotalHours, rt.TotalMinutes)
	}
	for _, d := range []string{rt.StartDate, rt.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(entities.DateLayout, d); err != nil {
			return entities.Book{}, fmt.Errorf("invalid date: %q", d)
		}
	}
	return s.update(id, func(b *entities.Book) error {
		b.ReadingTime = &rt
		return nil
	})
}

// update applies fn to one book under the store lock and persists the
// result, broadcasting an update event on success.
func (s *Store) update(id int, fn func(*entities.Book) error) (entities.Book, error) {
	s.mu.Lock()

	books, err := s.Load()
	if err != nil {
		s.mu.Unlock()
		return entities.Book{}, err
	}

	idx := -1
	for i := range books {
		if books[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return entities.Book{}, ErrNotFound
	}

	if err := fn(&books[idx]); err != nil {
		s.mu.Unlock()
		return entities.Book{}, err
	}

	if err := s.Save(books); err != nil {
		s.mu.Unlock()
		return entities.Book{}, err
	}

	book := books[idx]
	s.mu.Unlock()

	s.broadcast(Event{Op: EventUpdated, Book: book})
	return book, nil
}
