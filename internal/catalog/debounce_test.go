package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		response := map[string]any{
			"totalItems": 1,
			"items": []Volume{
				{ID: query, VolumeInfo: VolumeInfo{Title: query}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestSearcher_DeliversAfterDelay(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	searcher := NewSearcher(newTestClient(server.URL), 10*time.Millisecond)

	volumes, err := searcher.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "dune", volumes[0].VolumeInfo.Title)
}

func TestSearcher_NewerQuerySupersedesPending(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	searcher := NewSearcher(newTestClient(server.URL), 50*time.Millisecond)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = searcher.Search(context.Background(), "du")
	}()

	// Let the first search enter its debounce window before replacing it.
	time.Sleep(10 * time.Millisecond)

	volumes, err := searcher.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "dune", volumes[0].VolumeInfo.Title)

	wg.Wait()
	assert.ErrorIs(t, firstErr, ErrSuperseded)
}

// watchedParent is a non-stdlib context with its own done channel, so
// deriving a cancellable child from it spawns a watcher goroutine that
// only exits once the child is cancelled.
type watchedParent struct {
	context.Context
	done chan struct{}
}

func (p *watchedParent) Done() <-chan struct{} { return p.done }

func TestSearcher_ReleasesContextAfterDelivery(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	searcher := NewSearcher(newTestClient(server.URL), time.Millisecond)
	parent := &watchedParent{Context: context.Background(), done: make(chan struct{})}

	// Warm up so the HTTP connection goroutines are already parked.
	_, err := searcher.Search(parent, "dune")
	require.NoError(t, err)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		_, err := searcher.Search(parent, "dune")
		require.NoError(t, err)
	}

	// Each delivered search must cancel its derived context, letting
	// the watcher goroutines exit instead of waiting on the parent.
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, time.Second, 10*time.Millisecond)
}

func TestSearcher_CallerContextCancel(t *testing.T) {
	server := newSearchServer(t)
	defer server.Close()

	searcher := NewSearcher(newTestClient(server.URL), 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Search(ctx, "dune")
	assert.ErrorIs(t, err, context.Canceled)
}
