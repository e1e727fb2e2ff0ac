package http

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/coach"
	"github.com/tpqls774/libris/internal/metrics"
	"github.com/tpqls774/libris/internal/notify"
	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/shelf"
	"github.com/tpqls774/libris/internal/storage"
	"github.com/tpqls774/libris/internal/tasks"
)

// SearchProvider runs a (possibly debounced) catalog search.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]catalog.Volume, error)
}

// CoachProvider returns feedback for one reading note.
type CoachProvider interface {
	Review(ctx context.Context, content string) (*coach.Feedback, error)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Shelf    *shelf.Store
	Profile  *profile.Store
	Recorder *notify.Recorder
	Slots    *storage.Store

	// Catalog search (optional; search endpoint returns 502 when absent)
	Searcher SearchProvider

	// Reading coach (optional; coach endpoint returns 502 when absent)
	Coach CoachProvider

	// Task queue client (optional; deletes run inline when absent)
	TaskClient  *tasks.Client
	DeleteDelay time.Duration

	// Metrics (optional)
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer

	// Application info
	Version string
}
