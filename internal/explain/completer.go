// internal/explain/completer.go
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"compare-workers/internal/common/config"
	httpclient "compare-workers/internal/common/http"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/metrics"
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	ErrNotConfigured   = errors.New("text generation not configured")
	ErrEmptyCompletion = errors.New("empty completion")
)

const breakerName = "genai"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// HTTPCompleter calls an OpenAI-compatible chat completions endpoint behind
// a circuit breaker.
type HTTPCompleter struct {
	cfg     config.GenAIConfig
	client  *httpclient.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  logger.Logger
}

func NewHTTPCompleter(cfg config.GenAIConfig, log logger.Logger) *HTTPCompleter {
	log = log.WithFields(map[string]interface{}{"component": "genai"})

	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	metrics.BreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    time.Duration(cfg.Breaker.Interval) * time.Millisecond,
		Timeout:     time.Duration(cfg.Breaker.Timeout) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    StateString(from),
				"to":      StateString(to),
			})
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.BreakerTransitions.WithLabelValues(name, StateString(from), StateString(to)).Inc()
		},
	})

	return &HTTPCompleter{
		cfg:     cfg,
		client:  httpclient.NewClient(0, httpclient.WithRetries(cfg.MaxRetries)),
		breaker: cb,
		logger:  log,
	}
}

func (c *HTTPCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" || c.cfg.BaseURL == "" {
		return "", ErrNotConfigured
	}
	return c.breaker.Execute(func() (string, error) {
		return c.complete(ctx, prompt)
	})
}

// State reports the breaker state as closed, half-open or open.
func (c *HTTPCompleter) State() string {
	return StateString(c.breaker.State())
}

func (c *HTTPCompleter) complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var resp chatResponse
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	if err := c.client.PostJSON(ctx, url, headers, req, &resp); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func StateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
