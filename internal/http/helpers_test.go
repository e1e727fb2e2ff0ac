package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tpqls774/libris/internal/catalog"
	"github.com/tpqls774/libris/internal/coach"
	"github.com/tpqls774/libris/internal/notify"
	"github.com/tpqls774/libris/internal/profile"
	"github.com/tpqls774/libris/internal/shelf"
	"github.com/tpqls774/libris/internal/storage"
)

type fakeSearcher struct {
	volumes []catalog.Volume
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]catalog.Volume, error) {
	return f.volumes, f.err
}

type fakeCoach struct {
	feedback *coach.Feedback
	err      error
}

func (f *fakeCoach) Review(ctx context.Context, content string) (*coach.Feedback, error) {
	return f.feedback, f.err
}

type testEnv struct {
	router   *gin.Engine
	shelf    *shelf.Store
	profile  *profile.Store
	recorder *notify.Recorder
	slots    *storage.Store
	searcher *fakeSearcher
	coach    *fakeCoach
}

func setupTestRouter(t *testing.T) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	slots, err := storage.Open(dbPath)
	require.NoError(t, err)

	env := &testEnv{
		shelf:    shelf.NewStore(slots),
		profile:  profile.NewStore(slots),
		recorder: notify.NewRecorder(slots, nil, notify.PermissionDefault),
		slots:    slots,
		searcher: &fakeSearcher{},
		coach:    &fakeCoach{},
	}

	env.router = NewRouter(RouterConfig{
		Shelf:    env.shelf,
		Profile:  env.profile,
		Recorder: env.recorder,
		Slots:    slots,
		Searcher: env.searcher,
		Coach:    env.coach,
		Version:  "test",
	})

	cleanup := func() {
		slots.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func addTestBook(t *testing.T, env *testEnv, title, author string) int {
	t.Helper()

	book, err := env.shelf.Add(catalog.VolumeInfo{
		Title:      title,
		Authors:    []string{author},
		Categories: []string{"Fiction"},
		PageCount:  300,
	}, "")
	require.NoError(t, err)
	return book.ID
}
