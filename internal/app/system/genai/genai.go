// internal/app/system/genai/genai.go

// Package genai calls the Gemini generateContent REST API to suggest a
// priority for a task. The model is asked to answer with a single JSON
// object; code fences around it are stripped before parsing.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Suggestion is the parsed model answer for a priority request.
type Suggestion struct {
	Priority    string   `json:"priority"`   // urgent | high | medium | low
	Reasoning   string   `json:"reasoning"`  // brief explanation
	Confidence  string   `json:"confidence"` // high | medium | low
	Suggestions []string `json:"suggestions"`
}

// Client talks to the Gemini API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// New builds a client. An empty model falls back to DefaultModel.
func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint. For tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// request/response shapes for generateContent.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// SuggestPriority asks the model to classify a task. dueDate may be nil.
func (c *Client) SuggestPriority(ctx context.Context, title, description string, dueDate *time.Time) (*Suggestion, error) {
	prompt := buildPrompt(title, description, dueDate, time.Now())

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, snippet)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("gemini response decode: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	return parseSuggestion(gr.Candidates[0].Content.Parts[0].Text)
}

// buildPrompt mirrors the guidelines the UI documents for each priority.
func buildPrompt(title, description string, dueDate *time.Time, now time.Time) string {
	desc := description
	if desc == "" {
		desc = "No description"
	}
	due := "No deadline"
	if dueDate != nil {
		days := int(math.Ceil(dueDate.Sub(now).Hours() / 24))
		due = fmt.Sprintf("%s (%d days)", dueDate.Format("2006-01-02"), days)
	}

	return fmt.Sprintf(`Analyze task priority (urgent/high/medium/low):
Title: %s
Description: %s
Due: %s

Guidelines:
- URGENT: 1-2 days, critical/blocking
- HIGH: 3-7 days, important features/bugs
- MEDIUM: 1-2 weeks, standard tasks
- LOW: Flexible, minor improvements

Return JSON: {"priority":"urgent|high|medium|low","reasoning":"brief explanation","confidence":"high|medium|low","suggestions":["tip1","tip2"]}`,
		title, desc, due)
}

// parseSuggestion strips markdown code fences and parses the model's JSON.
func parseSuggestion(text string) (*Suggestion, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var s Suggestion
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		return nil, fmt.Errorf("gemini answer is not valid JSON: %w", err)
	}
	if s.Suggestions == nil {
		s.Suggestions = []string{}
	}
	return &s, nil
}
