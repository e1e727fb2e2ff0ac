package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, replyContent string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		require.Equal(t, "user", req.Messages[1].Role)

		response := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": replyContent}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func newTestCoach(serverURL string) *Client {
	return NewClient(serverURL, "test-key", "test-model", 5*time.Second)
}

func TestReview_PlainJSONReply(t *testing.T) {
	reply := `{"comment":"Nice note.","question":"What surprised you?","suggestion":"Try the sequel.","related":["Dune Messiah"]}`
	server := completionServer(t, reply)
	defer server.Close()

	fb, err := newTestCoach(server.URL).Review(context.Background(), "I loved Dune.")
	require.NoError(t, err)
	assert.Equal(t, "Nice note.", fb.Comment)
	assert.Equal(t, "What surprised you?", fb.Question)
	assert.Equal(t, []string{"Dune Messiah"}, fb.Related)
}

func TestReview_FencedReply(t *testing.T) {
	reply := "Here you go:\n```json\n{\"comment\":\"Good.\",\"question\":\"Why?\",\"suggestion\":\"Read on.\",\"related\":[]}\n```\nEnjoy!"
	server := completionServer(t, reply)
	defer server.Close()

	fb, err := newTestCoach(server.URL).Review(context.Background(), "note")
	require.NoError(t, err)
	assert.Equal(t, "Good.", fb.Comment)
}

func TestReview_BracesFallback(t *testing.T) {
	reply := `Sure! {"comment":"Ok.","question":"Hm?","suggestion":"Next.","related":[]} Hope that helps.`
	server := completionServer(t, reply)
	defer server.Close()

	fb, err := newTestCoach(server.URL).Review(context.Background(), "note")
	require.NoError(t, err)
	assert.Equal(t, "Ok.", fb.Comment)
}

func TestReview_UnparseableReply(t *testing.T) {
	server := completionServer(t, "I cannot answer in JSON today.")
	defer server.Close()

	_, err := newTestCoach(server.URL).Review(context.Background(), "note")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "I cannot answer in JSON today.", parseErr.Raw)
}

func TestReview_EmptyContent(t *testing.T) {
	_, err := newTestCoach("http://coach.invalid").Review(context.Background(), "   ")
	assert.Error(t, err)
}

func TestReview_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestCoach(server.URL).Review(context.Background(), "note")
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr))
}

func TestParseFeedback_FencedWithoutLanguageTag(t *testing.T) {
	fb, err := parseFeedback("```\n{\"comment\":\"x\",\"question\":\"\",\"suggestion\":\"\",\"related\":[]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "x", fb.Comment)
}
