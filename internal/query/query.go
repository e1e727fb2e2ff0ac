// Package query filters and projects book collections. Every function
// is pure: it never mutates its input and returns a fresh slice.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/tpqls774/libris/internal/entities"
)

// FacetAll is the sentinel facet value that disables a filter.
const FacetAll = "All"

// Window selects a calendar range relative to a reference time.
type Window string

const (
	WindowAll       Window = "all"
	WindowThisMonth Window = "this-month"
	WindowLastMonth Window = "last-month"
	WindowThisYear  Window = "this-year"
)

// Search keeps books whose title or author contains text,
// case-insensitively. Empty text keeps everything.
func Search(books []entities.Book, text string) []entities.Book {
	if text == "" {
		return clone(books)
	}
	needle := strings.ToLower(text)
	var out []entities.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) {
			out = append(out, b)
		}
	}
	return out
}

// SearchNotes is Search extended to also match review content.
func SearchNotes(books []entities.Book, text string) []entities.Book {
	if text == "" {
		return clone(books)
	}
	needle := strings.ToLower(text)
	var out []entities.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.Review), needle) {
			out = append(out, b)
		}
	}
	return out
}

// FilterGenre keeps books of one genre. FacetAll keeps everything.
func FilterGenre(books []entities.Book, genre string) []entities.Book {
	if genre == "" || genre == FacetAll {
		return clone(books)
	}
	var out []entities.Book
	for _, b := range books {
		if b.Genre == genre {
			out = append(out, b)
		}
	}
	return out
}

// FilterStatus keeps books in one reading status. FacetAll keeps
// everything.
func FilterStatus(books []entities.Book, status string) []entities.Book {
	if status == "" || status == FacetAll {
		return clone(books)
	}
	var out []entities.Book
	for _, b := range books {
		if string(b.Status) == status {
			out = append(out, b)
		}
	}
	return out
}

// Genres lists the genre facet values: FacetAll first, then each
// distinct genre in first-seen order.
func Genres(books []entities.Book) []string {
	out := []string{FacetAll}
	seen := map[string]bool{}
	for _, b := range books {
		if b.Genre == "" || seen[b.Genre] {
			continue
		}
		seen[b.Genre] = true
		out = append(out, b.Genre)
	}
	return out
}

// Statuses lists the status facet values: FacetAll first, then each
// distinct status in first-seen order.
func Statuses(books []entities.Book) []string {
	out := []string{FacetAll}
	seen := map[string]bool{}
	for _, b := range books {
		s := string(b.Status)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// FilterWindow keeps books whose added date falls in the window
// relative to now.
func FilterWindow(books []entities.Book, w Window, now time.Time) []entities.Book {
	if w == "" || w == WindowAll {
		return clone(books)
	}
	var out []entities.Book
	for _, b := range books {
		d, err := time.Parse(entities.DateLayout, b.Date)
		if err != nil {
			continue
		}
		if inWindow(d, w, now) {
			out = append(out, b)
		}
	}
	return out
}

func inWindow(d time.Time, w Window, now time.Time) bool {
	switch w {
	case WindowThisMonth:
		return d.Year() == now.Year() && d.Month() == now.Month()
	case WindowLastMonth:
		last := now.AddDate(0, -1, -now.Day()+1)
		return d.Year() == last.Year() && d.Month() == last.Month()
	case WindowThisYear:
		return d.Year() == now.Year()
	}
	return false
}

// FilterRating keeps books whose star rating rounds down to rating.
// Zero keeps everything.
func FilterRating(books []entities.Book, rating int) []entities.Book {
	if rating == 0 {
		return clone(books)
	}
	var out []entities.Book
	for _, b := range books {
		if int(b.Rating) == rating {
			out = append(out, b)
		}
	}
	return out
}

// FilterReadingWindow keeps books whose reading end date falls in the
// inclusive [start, end] range. Blank bounds are open-ended.
func FilterReadingWindow(books []entities.Book, start, end string) []entities.Book {
	var out []entities.Book
	for _, b := range books {
		if b.ReadingTime == nil || b.ReadingTime.EndDate == "" {
			continue
		}
		d := b.ReadingTime.EndDate
		if start != "" && d < start {
			continue
		}
		if end != "" && d > end {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FilterReadingWeekday keeps books whose reading end date falls on the
// given weekday.
func FilterReadingWeekday(books []entities.Book, day time.Weekday) []entities.Book {
	var out []entities.Book
	for _, b := range books {
		if b.ReadingTime == nil {
			continue
		}
		d, err := time.Parse(entities.DateLayout, b.ReadingTime.EndDate)
		if err != nil {
			continue
		}
		if d.Weekday() == day {
			out = append(out, b)
		}
	}
	return out
}

// Notes projects the books that have a written review, newest first.
func Notes(books []entities.Book) []entities.Book {
	var out []entities.Book
	for _, b := range books {
		if strings.TrimSpace(b.Review) != "" {
			out = append(out, b)
		}
	}
	sortByDateDesc(out)
	return out
}

// RecentActivity returns the most recently added finished books,
// at most limit of them.
func RecentActivity(books []entities.Book, limit int) []entities.Book {
	var out []entities.Book
	for _, b := range books {
		if b.Status == entities.StatusFinished {
			out = append(out, b)
		}
	}
	sortByDateDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sortByDateDesc orders newest first. Dates are YYYY-MM-DD strings, so
// lexicographic order is chronological.
func sortByDateDesc(books []entities.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Date > books[j].Date
	})
}

func clone(books []entities.Book) []entities.Book {
	out := make([]entities.Book, len(books))
	copy(out, books)
	return out
}
