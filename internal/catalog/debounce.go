package catalog

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned when a newer search replaced this one
// before it could deliver results.
var ErrSuperseded = errors.New("catalog: search superseded by a newer query")

// Searcher debounces catalog searches. Each call schedules the query
// after a fixed delay and cancels whatever was pending or in flight,
// so only the latest query can deliver results.
type Searcher struct {
	client *Client
	delay  time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSearcher wraps client with a debounce of the given delay.
func NewSearcher(client *Client, delay time.Duration) *Searcher {
	return &Searcher{
		client: client,
		delay:  delay,
	}
}

// Search waits the debounce delay, then queries the catalog. If another
// Search call arrives during the delay or while the request is in
// flight, this call returns ErrSuperseded and the new call proceeds.
func (s *Searcher) Search(ctx context.Context, query string) ([]Volume, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, s.doneErr(gen, ctx.Err())
	case <-timer.C:
	}

	volumes, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, s.doneErr(gen, err)
	}

	s.mu.Lock()
	latest := s.gen == gen
	if latest {
		// Release the derived context now that the request is done.
		cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if !latest {
		return nil, ErrSuperseded
	}
	return volumes, nil
}

// doneErr distinguishes being replaced by a newer query from the
// caller's own context expiring or a genuine upstream failure.
func (s *Searcher) doneErr(gen uint64, err error) error {
	s.mu.Lock()
	superseded := s.gen != gen
	s.mu.Unlock()

	if superseded {
		return ErrSuperseded
	}
	return err
}
