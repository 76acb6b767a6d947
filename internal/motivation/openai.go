package motivation

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

const (
	openaiBaseURL      = "https://api.openai.com/v1/chat/completions"
	openaiDefaultModel = "gpt-3.5-turbo"
	openaiMaxRetries   = 3
	openaiInitialDelay = 1 * time.Second

	systemPrompt = "You are a friendly and supportive assistant. Your job is to " +
		"encourage people who are forming healthy habits."
)

// OpenAI generates motivational messages via the chat-completions API.
type OpenAI struct {
	apiKey     string
	model      string
	baseURL    string
	retryDelay time.Duration
	client     *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
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

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewOpenAI creates an OpenAI provider. An empty model selects the default.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openaiDefaultModel
	}
	return &OpenAI{
		apiKey:     apiKey,
		model:      model,
		baseURL:    openaiBaseURL,
		retryDelay: openaiInitialDelay,
		client:     &http.Client{},
	}
}

// Message asks the model for a short, upbeat encouragement acknowledging
// the user's current streak.
func (o *OpenAI) Message(ctx context.Context, req Request) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("motivation: api key not set")
	}

	prompt := fmt.Sprintf(
		"User %s is working on the habit of '%s'. They currently have a streak of %d days. "+
			"Provide a concise, upbeat motivational message to keep them going.",
		req.UserName, req.Habit, req.Streak)
	if req.Milestone {
		prompt += fmt.Sprintf(" They just reached the %d-day milestone, so celebrate it.", req.Streak)
	}

	body, err := json.Marshal(chatRequest{
		Model:       o.model,
		Temperature: 0.7,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("motivation: marshal request: %w", err)
	}

	// Retry with exponential backoff on rate limits and server errors.
	var lastErr error
	for attempt := 0; attempt < openaiMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * o.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("motivation: create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("motivation: request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("motivation: read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var envelope apiError
			if json.Unmarshal(respBody, &envelope) == nil && envelope.Error.Message != "" {
				lastErr = fmt.Errorf("motivation: api error (%d): %s", resp.StatusCode, envelope.Error.Message)
			} else {
				lastErr = fmt.Errorf("motivation: api error (%d): %s", resp.StatusCode, string(respBody))
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var out chatResponse
		if err := json.Unmarshal(respBody, &out); err != nil {
			return "", fmt.Errorf("motivation: decode response: %w", err)
		}
		if len(out.Choices) == 0 {
			return "", fmt.Errorf("motivation: empty response")
		}
		return strings.TrimSpace(out.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("motivation: max retries (%d) exceeded: %w", openaiMaxRetries, lastErr)
}
