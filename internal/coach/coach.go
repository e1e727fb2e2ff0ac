// Package coach asks a chat-completion model for feedback on a reading
// note and extracts the structured reply.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You are a warm, encouraging reading coach. ` +
	`Given a reader's note about a book, reply with JSON only: ` +
	`{"comment": "...", "question": "...", "suggestion": "...", "related": ["...", "..."]}. ` +
	`comment reacts to the note, question invites deeper reflection, ` +
	`suggestion proposes what to explore next, related lists two or three book titles.`

// Feedback is the coach's structured reply to one note.
type Feedback struct {
	Comment    string   `json:"comment"`
	Question   string   `json:"question"`
	Suggestion string   `json:"suggestion"`
	Related    []string `json:"related"`
}

// ParseError reports a model reply that carried no usable JSON. Raw
// holds the reply text so callers can still show it.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "coach: reply is not valid feedback JSON"
}

// Client calls an OpenAI-style chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Review sends the note content to the model and parses its feedback.
func (c *Client) Review(ctx context.Context, content string) (*Feedback, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty note content")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: content},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feedback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}

	return parseFeedback(chat.Choices[0].Message.Content)
}

// parseFeedback extracts the feedback object from the model's reply.
// A fenced code block wins; otherwise the first-{ to last-} span is
// tried before giving up with a ParseError.
func parseFeedback(reply string) (*Feedback, error) {
	candidate := fencedBlock(reply)
	if candidate == "" {
		start := strings.Index(reply, "{")
		end := strings.LastIndex(reply, "}")
		if start == -1 || end <= start {
			return nil, &ParseError{Raw: reply}
		}
		candidate = reply[start : end+1]
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(candidate), &fb); err != nil {
		return nil, &ParseError{Raw: reply}
	}
	return &fb, nil
}

// fencedBlock returns the body of the first ``` block, stripping an
// optional language tag.
func fencedBlock(reply string) string {
	start := strings.Index(reply, "```")
	if start == -1 {
		return ""
	}
	rest := reply[start+3:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	body := rest[:end]
	if nl := strings.Index(body, "\n"); nl != -1 {
		firstLine := strings.TrimSpace(body[:nl])
		if firstLine == "json" || firstLine == "JSON" {
			body = body[nl+1:]
		}
	}
	return strings.TrimSpace(body)
}
