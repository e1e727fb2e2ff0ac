// Package stats aggregates the collection into the numbers shown on
// the statistics and profile screens.
package stats

import (
	"math"
	"time"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/profile"
)

// MonthBucket is one month of the current year.
type MonthBucket struct {
	Month int `json:"month"`
	Count int `json:"count"`
	Pages int `json:"pages"`
}

// GoalProgress reports progress toward one reading goal. Percent is
// the raw rounded percentage and may exceed 100; Display is capped for
// progress bars.
type GoalProgress struct {
	Completed int `json:"completed"`
	Target    int `json:"target"`
	Percent   int `json:"percent"`
	Display   int `json:"display"`
}

// Overview is the full aggregation of a collection at one point in
// time. Yearly figures cover books finished in the current year.
type Overview struct {
	TotalBooks         int `json:"totalBooks"`
	FinishedTotal      int `json:"finishedTotal"`
	CompletedThisMonth int `json:"completedThisMonth"`
	CompletedThisYear  int `json:"completedThisYear"`

	Months []MonthBucket `json:"months"`

	TotalPages      int `json:"totalPages"`
	AvgPagesPerBook int `json:"avgPagesPerBook"`

	TotalReadingMinutes int     `json:"totalReadingMinutes"`
	ReadingHours        int     `json:"readingHours"`
	ReadingMinutes      int     `json:"readingMinutes"`
	AvgMinutesPerBook   int     `json:"avgMinutesPerBook"`
	AvgMinutesPerPage   float64 `json:"avgMinutesPerPage"`

	Genres map[string]int `json:"genres"`

	// Weekly holds reading minutes per weekday, Sunday first.
	Weekly [7]int `json:"weekly"`

	MonthlyGoal GoalProgress `json:"monthlyGoal"`
	YearlyGoal  GoalProgress `json:"yearlyGoal"`

	AvgRating float64 `json:"avgRating"`
}

// Compute aggregates books against the goals as of now. An empty
// collection yields all zeros.
func Compute(books []entities.Book, goals profile.Goals, now time.Time) Overview {
	ov := Overview{
		TotalBooks: len(books),
		Months:     make([]MonthBucket, 12),
		Genres:     map[string]int{},
	}
	for i := range ov.Months {
		ov.Months[i].Month = i + 1
	}

	var (
		readBooks  int
		readPages  int
		ratedBooks int
		ratingSum  float64
	)

	for _, b := range books {
		if b.Rating > 0 {
			ratedBooks++
			ratingSum += b.Rating
		}

		if b.Status != entities.StatusFinished {
			continue
		}
		ov.FinishedTotal++

		d, err := time.Parse(entities.DateLayout, b.Date)
		if err != nil {
			continue
		}
		if d.Year() != now.Year() {
			continue
		}

		ov.CompletedThisYear++
		if d.Month() == now.Month() {
			ov.CompletedThisMonth++
		}

		bucket := &ov.Months[int(d.Month())-1]
		bucket.Count++
		bucket.Pages += b.PageCount

		ov.TotalPages += b.PageCount
		ov.Genres[genreOf(b)]++

		// Reading time only counts once a book is finished.
		if rt := b.ReadingTime; rt != nil && !rt.IsZero() {
			minutes := rt.Minutes()
			ov.TotalReadingMinutes += minutes
			readBooks++
			readPages += b.PageCount

			if end, err := time.Parse(entities.DateLayout, rt.EndDate); err == nil {
				ov.Weekly[int(end.Weekday())] += minutes
			}
		}
	}

	if ov.CompletedThisYear > 0 {
		ov.AvgPagesPerBook = int(math.Round(float64(ov.TotalPages) / float64(ov.CompletedThisYear)))
	}

	ov.ReadingHours = ov.TotalReadingMinutes / 60
	ov.ReadingMinutes = ov.TotalReadingMinutes % 60
	if readBooks > 0 {
		ov.AvgMinutesPerBook = ov.TotalReadingMinutes / readBooks
	}
	if readPages > 0 {
		ov.AvgMinutesPerPage = round2(float64(ov.TotalReadingMinutes) / float64(readPages))
	}

	if ratedBooks > 0 {
		ov.AvgRating = round2(ratingSum / float64(ratedBooks))
	}

	ov.MonthlyGoal = progress(ov.CompletedThisMonth, goals.Monthly)
	ov.YearlyGoal = progress(ov.CompletedThisYear, goals.Yearly)

	return ov
}

func progress(completed, target int) GoalProgress {
	p := GoalProgress{Completed: completed, Target: target}
	if target > 0 {
		p.Percent = int(math.Round(float64(completed) / float64(target) * 100))
	}
	p.Display = p.Percent
	if p.Display > 100 {
		p.Display = 100
	}
	return p
}

func genreOf(b entities.Book) string {
	if b.Genre == "" {
		return entities.GenreOther
	}
	return b.Genre
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
