// Command generate_demo creates a demo database with a sample shelf of
// public domain books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/notify"
	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/shelf"
	"github.com/tpqls774/libris/internal/storage"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// demoBook pairs a catalog volume with the reading state to apply
// after adding it to the shelf.
type demoBook struct {
	info    catalog.VolumeInfo
	status  entities.Status
	date    string
	rating  float64
	review  string
	quotes  []string
	reading *entities.ReadingTime
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	slots, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer slots.Close()

	shelfStore := shelf.NewStore(slots)
	recorder := notify.NewRecorder(slots, nil, notify.PermissionDefault)

	for _, d := range demoBooks() {
		book, err := shelfStore.Add(d.info, "")
		if err != nil {
			log.Printf("Failed to add book %s: %v", d.info.Title, err)
			continue
		}

		if d.status != "" && d.status != entities.StatusToRead {
			if _, err := shelfStore.SetStatus(book.ID, d.status, d.date); err != nil {
				log.Printf("Failed to set status for %s: %v", book.Title, err)
			}
		}
		if d.rating > 0 {
			if _, err := shelfStore.SetRating(book.ID, d.rating); err != nil {
				log.Printf("Failed to set rating for %s: %v", book.Title, err)
			}
		}
		if d.review != "" {
			if _, err := shelfStore.SetReview(book.ID, d.review); err != nil {
				log.Printf("Failed to set review for %s: %v", book.Title, err)
			}
		}
		for _, q := range d.quotes {
			if _, err := shelfStore.AddQuote(book.ID, q); err != nil {
				log.Printf("Failed to add quote for %s: %v", book.Title, err)
			}
		}
		if d.reading != nil {
			if _, err := shelfStore.SetReadingTime(book.ID, *d.reading); err != nil {
				log.Printf("Failed to set reading time for %s: %v", book.Title, err)
			}
		}

		log.Printf("Added: %s by %s (%s)", book.Title, book.Author, d.status)
	}

	profileStore := profile.NewStore(slots)
	if err := profileStore.SetNickname("Demo Reader"); err != nil {
		log.Printf("Failed to set nickname: %v", err)
	}
	if err := profileStore.SetIntro("Mostly classics, the occasional science title."); err != nil {
		log.Printf("Failed to set intro: %v", err)
	}
	if err := profileStore.SetGoals(profile.Goals{Monthly: 3, Yearly: 30}); err != nil {
		log.Printf("Failed to set goals: %v", err)
	}

	if err := recorder.BookAdded("The Picture of Dorian Gray"); err != nil {
		log.Printf("Failed to record notification: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

func demoBooks() []demoBook {
	now := time.Now()
	lastMonth := now.AddDate(0, -1, 0).Format(entities.DateLayout)
	thisMonth := now.Format(entities.DateLayout)

	return []demoBook{
		{
			info: catalog.VolumeInfo{
				Title:      "Meditations",
				Authors:    []string{"Marcus Aurelius"},
				Categories: []string{"Philosophy"},
				PageCount:  256,
			},
			status: entities.StatusFinished,
			date:   lastMonth,
			rating: 5,
			review: "Short, direct notes to self that hold up after two thousand years. Worth rereading once a year.",
			quotes: []string{
				"You have power over your mind - not outside events. Realize this, and you will find strength.",
				"The soul becomes dyed with the color of its thoughts.",
			},
			reading: &entities.ReadingTime{
				StartDate:    now.AddDate(0, -1, -10).Format(entities.DateLayout),
				EndDate:      lastMonth,
				TotalHours:   6,
				TotalMinutes: 30,
			},
		},
		{
			info: catalog.VolumeInfo{
				Title:      "Letters from a Stoic",
				Authors:    []string{"Seneca"},
				Categories: []string{"Philosophy"},
				PageCount:  254,
			},
			status: entities.StatusFinished,
			date:   thisMonth,
			rating: 4.5,
			review: "Warmer than Meditations. The letters on time and friendship are the keepers.",
			quotes: []string{
				"We suffer more often in imagination than in reality.",
			},
			reading: &entities.ReadingTime{
				StartDate:    now.AddDate(0, 0, -14).Format(entities.DateLayout),
				EndDate:      thisMonth,
				TotalHours:   7,
				TotalMinutes: 0,
			},
		},
		{
			info: catalog.VolumeInfo{
				Title:      "On the Origin of Species",
				Authors:    []string{"Charles Darwin"},
				Categories: []string{"Science"},
				PageCount:  502,
			},
			status: entities.StatusReading,
			date:   thisMonth,
			quotes: []string{
				"There is grandeur in this view of life.",
			},
		},
		{
			info: catalog.VolumeInfo{
				Title:      "Pride and Prejudice",
				Authors:    []string{"Jane Austen"},
				Categories: []string{"Fiction"},
				PageCount:  432,
			},
			status: entities.StatusFinished,
			date:   now.AddDate(0, -2, 0).Format(entities.DateLayout),
			rating: 4,
			review: "Sharper and funnier than its reputation suggests.",
		},
		{
			info: catalog.VolumeInfo{
				Title:      "War and Peace",
				Authors:    []string{"Leo Tolstoy"},
				Categories: []string{"Fiction"},
				PageCount:  1225,
			},
			status: entities.StatusToRead,
		},
		{
			info: catalog.VolumeInfo{
				Title:      "Crime and Punishment",
				Authors:    []string{"Fyodor Dostoevsky"},
				Categories: []string{"Fiction"},
				PageCount:  671,
			},
			status: entities.StatusToRead,
		},
		{
			info: catalog.VolumeInfo{
				Title:      "The Art of War",
				Authors:    []string{"Sun Tzu"},
				Categories: []string{"Philosophy"},
				PageCount:  112,
			},
			status: entities.StatusFinished,
			date:   now.AddDate(0, -3, 0).Format(entities.DateLayout),
			rating: 3.5,
		},
		{
			info: catalog.VolumeInfo{
				Title:      "Frankenstein",
				Authors:    []string{"Mary Shelley"},
				Categories: []string{"Fiction"},
				PageCount:  280,
			},
			status: entities.StatusReading,
			date:   thisMonth,
		},
		{
			info: catalog.VolumeInfo{
				Title:      "The Picture of Dorian Gray",
				Authors:    []string{"Oscar Wilde"},
				Categories: []string{"Fiction"},
				PageCount:  254,
			},
			status: entities.StatusToRead,
		},
	}
}
