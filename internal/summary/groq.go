package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/source"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// GroqSummarizer generates summaries with a Groq-hosted model. Any
// failure - missing key, transport error, bad status, empty content -
// degrades to the rule-based fallback, so Summarize never fails.
type GroqSummarizer struct {
	apiKey string
	model  string
	client *http.Client
	logger *logger.Logger
}

func NewGroqSummarizer(cfg *config.Config, log *logger.Logger) *GroqSummarizer {
	if cfg.GroqAPIKey == "" {
		log.Warn("GROQ_API_KEY not set, summaries will use the rule-based fallback")
	}
	return &GroqSummarizer{
		apiKey: cfg.GroqAPIKey,
		model:  cfg.GroqModel,
		client: &http.Client{Timeout: cfg.SummaryTimeout},
		logger: log,
	}
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

func (s *GroqSummarizer) Summarize(ctx context.Context, data *source.RawCaseData) string {
	if s.apiKey == "" {
		return Fallback(data)
	}

	text, err := s.complete(ctx, prompt(data))
	if err != nil {
		s.logger.Warn("LLM summary failed, using fallback", "error", err)
		return Fallback(data)
	}
	if text == "" {
		return Fallback(data)
	}
	return text
}

func (s *GroqSummarizer) complete(ctx context.Context, input string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: input}},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request returned %s", resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response had no choices")
	}

	s.logger.Debug("Generated AI summary", "model", s.model, "latency", time.Since(start).String())
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
