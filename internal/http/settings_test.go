package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, env.router, "GET", "/api/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "", response["nickname"])
	assert.Equal(t, "", response["lastBackup"])

	goals := response["goals"].(map[string]any)
	assert.Equal(t, float64(15), goals["monthly"])
	assert.Equal(t, float64(50), goals["yearly"])
}

func TestUpdateProfile(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, env.router, "PUT", "/api/profile", ProfileRequest{
		Nickname: "avid reader",
		Intro:    "mostly sci-fi",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "GET", "/api/profile", nil)
	response := decodeBody(t, w)
	assert.Equal(t, "avid reader", response["nickname"])
	assert.Equal(t, "mostly sci-fi", response["intro"])
}

func TestUpdateGoals(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, env.router, "PUT", "/api/goals", GoalsRequest{Monthly: 3, Yearly: 40})
	assert.Equal(t, http.StatusOK, w.Code)

	goals := env.profile.Goals()
	assert.Equal(t, 3, goals.Monthly)
	assert.Equal(t, 40, goals.Yearly)

	// Goals have to be positive.
	w = doJSON(t, env.router, "PUT", "/api/goals", map[string]int{"monthly": 0, "yearly": 40})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackupExport(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	addTestBook(t, env, "Dune", "Frank Herbert")
	require.NoError(t, env.profile.SetNickname("avid reader"))

	w := doJSON(t, env.router, "GET", "/api/backup", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	slots := response["slots"].(map[string]any)
	assert.Contains(t, slots, "bookshelf_books")
	assert.Contains(t, slots, "bookshelf_nickname")
	assert.NotEmpty(t, response["exportedAt"])

	// The export stamps the last-backup marker.
	assert.False(t, env.profile.LastBackup().IsZero())
}

func TestBackupImport(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	addTestBook(t, env, "Dune", "Frank Herbert")

	w := doJSON(t, env.router, "GET", "/api/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported := decodeBody(t, w)

	// Wipe the shelf, then restore it from the export.
	require.NoError(t, env.shelf.Delete(1))
	w = doJSON(t, env.router, "GET", "/api/books", nil)
	require.Equal(t, float64(0), decodeBody(t, w)["count"])

	w = doJSON(t, env.router, "POST", "/api/backup", exported)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "GET", "/api/books", nil)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = doJSON(t, env.router, "POST", "/api/backup", BackupDocument{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(t, env.router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "test", response["version"])

	checks := response["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
}
