package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpqls774/libris/internal/coach"
)

func TestGetNotes(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	addTestBook(t, env, "Dune", "Frank Herbert")
	addTestBook(t, env, "Clean Code", "Robert C. Martin")

	review := "A desert epic."
	w := doJSON(t, env.router, "PATCH", "/api/books/1/review", ReviewRequest{Review: &review})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "GET", "/api/notes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	// Note search also matches review content.
	w = doJSON(t, env.router, "GET", "/api/notes?q=desert", nil)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = doJSON(t, env.router, "GET", "/api/notes?q=nothing", nil)
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])
}

func TestDeleteReview(t *testing.T) {
	env, cleanup := setupTestRouter(t)
	defer cleanup()

	addTestBook(t, env, "Dune", "Frank Herbert")

	review := "A desert epic."
	w := doJSON(t, env.router, "PATCH", "/api/books/1/review", ReviewRequest{Review: &review})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "DELETE", "/api/notes/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, env.router, "GET", "/api/notes", nil)
	assert.Equal(t, float64(0), decodeBody(t, w)["count"])

	w = doJSON(t, env.router, "DELETE", "/api/notes/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoachReview(t *testing.T) {
	t.Run("returns structured feedback", func(t *testing.T) {
		env, cleanup := setupTestRouter(t)
		defer cleanup()

		env.coach.feedback = &coach.Feedback{
			Comment:  "Nice note.",
			Question: "What surprised you?",
		}

		w := doJSON(t, env.router, "POST", "/api/coach", CoachRequest{Content: "I loved Dune."})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Nice note.", decodeBody(t, w)["comment"])
	})

	t.Run("empty content answers bad request", func(t *testing.T) {
		env, cleanup := setupTestRouter(t)
		defer cleanup()

		w := doJSON(t, env.router, "POST", "/api/coach", CoachRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unparseable reply answers bad gateway with raw text", func(t *testing.T) {
		env, cleanup := setupTestRouter(t)
		defer cleanup()

		env.coach.err = &coach.ParseError{Raw: "not json"}

		w := doJSON(t, env.router, "POST", "/api/coach", CoachRequest{Content: "note"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "not json", decodeBody(t, w)["raw"])
	})

	t.Run("upstream failure answers bad gateway", func(t *testing.T) {
		env, cleanup := setupTestRouter(t)
		defer cleanup()

		env.coach.err = errors.New("boom")

		w := doJSON(t, env.router, "POST", "/api/coach", CoachRequest{Content: "note"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
