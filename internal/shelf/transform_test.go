package shelf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/entities"
)

var transformNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func TestNewBook_FullVolume(t *testing.T) {
	info := catalog.VolumeInfo{
		Title:      "Dune",
		Authors:    []string{"Frank Herbert"},
		Categories: []string{"Fiction", "Science Fiction"},
		PageCount:  412,
		ImageLinks: catalog.ImageLinks{Thumbnail: "http://covers.example/dune.jpg"},
	}

	book := NewBook(nil, info, "", transformNow)

	assert.Equal(t, 1, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "http://covers.example/dune.jpg", book.Cover)
	assert.Equal(t, "Fiction", book.Genre)
	assert.Equal(t, 412, book.PageCount)
	assert.Equal(t, "2026-03-14", book.Date)
	assert.Equal(t, entities.StatusToRead, book.Status)
	assert.Empty(t, book.Review)
}

func TestNewBook_MultipleAuthors(t *testing.T) {
	info := catalog.VolumeInfo{
		Title:   "Good Omens",
		Authors: []string{"Terry Pratchett", "Neil Gaiman"},
	}

	book := NewBook(nil, info, "", transformNow)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", book.Author)
}

func TestNewBook_MissingFieldsFallBack(t *testing.T) {
	book := NewBook(nil, catalog.VolumeInfo{Title: "Bare"}, "", transformNow)

	assert.Equal(t, PlaceholderCover, book.Cover)
	assert.Equal(t, entities.GenreOther, book.Genre)
	assert.Equal(t, 0, book.PageCount)
	assert.Empty(t, book.Author)
}

func TestNewBook_ManualPageCount(t *testing.T) {
	book := NewBook(nil, catalog.VolumeInfo{Title: "Bare"}, "321", transformNow)
	assert.Equal(t, 321, book.PageCount)
}

func TestNewBook_ManualPageCountIgnoredWhenSourceHasOne(t *testing.T) {
	info := catalog.VolumeInfo{Title: "Counted", PageCount: 200}
	book := NewBook(nil, info, "999", transformNow)
	assert.Equal(t, 200, book.PageCount)
}

func TestNewBook_ManualPageCountUnparseable(t *testing.T) {
	book := NewBook(nil, catalog.VolumeInfo{Title: "Bare"}, "lots", transformNow)
	assert.Equal(t, 0, book.PageCount)
}

func TestNewBook_IDContinuesSequence(t *testing.T) {
	existing := []entities.Book{{ID: 3}, {ID: 7}, {ID: 5}}
	book := NewBook(existing, catalog.VolumeInfo{Title: "Next"}, "", transformNow)
	assert.Equal(t, 8, book.ID)
}
