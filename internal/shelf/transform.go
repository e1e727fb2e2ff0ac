package shelf

import (
	"strconv"
	"strings"
	"time"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/entities"
)

// PlaceholderCover is served when a catalog volume has no thumbnail.
const PlaceholderCover = "/placeholder-book.png"

// NewBook maps a catalog volume to a shelf record. The id continues the
// collection's sequence, the added date is the current calendar day and
// the record starts unread with an empty review.
func NewBook(books []entities.Book, info catalog.VolumeInfo, manualPageCount string, now time.Time) entities.Book {
	author := strings.Join(info.Authors, ", ")

	cover := info.ImageLinks.Thumbnail
	if cover == "" {
		cover = PlaceholderCover
	}

	genre := entities.GenreOther
	if len(info.Categories) > 0 {
		genre = info.Categories[0]
	}

	pageCount := info.PageCount
	if pageCount == 0 && manualPageCount != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(manualPageCount)); err == nil && n > 0 {
			pageCount = n
		}
	}

	return entities.Book{
		ID:        entities.NextID(books),
		Title:     info.Title,
		Author:    author,
		Cover:     cover,
		Review:    "",
		Date:      now.Format(entities.DateLayout),
		Genre:     genre,
		Status:    entities.StatusToRead,
		PageCount: pageCount,
	}
}
