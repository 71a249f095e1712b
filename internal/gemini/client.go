// Package gemini streams Gemini completions as thought/answer fragments.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"wanicoach/internal/stream"
)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds generation settings.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Logger          *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		Model:           DefaultModel,
		Temperature:     0.7,
		MaxOutputTokens: 16384,
	}
}

// Client generates streamed completions with reasoning summaries enabled.
type Client struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	logger          *zap.Logger
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxOutputTokens := cfg.MaxOutputTokens
	if maxOutputTokens <= 0 {
		maxOutputTokens = 16384
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &Client{
		client:          client,
		model:           model,
		temperature:     cfg.Temperature,
		maxOutputTokens: maxOutputTokens,
		logger:          logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// GenerateFragments streams the model's reply to prompt. Fragments arrive
// on the first channel in generation order, preserving the thought flag on
// each part; at most one error is delivered on the second channel and both
// channels close when the stream ends. Cancelling ctx tears the stream
// down on every exit path, including a consumer that stops reading early.
func (c *Client) GenerateFragments(ctx context.Context, prompt string) (<-chan stream.Fragment, <-chan error) {
	frags := make(chan stream.Fragment, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(frags)
		defer close(errs)

		start := time.Now()
		config := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(c.temperature),
			MaxOutputTokens: c.maxOutputTokens,
			ThinkingConfig:  &genai.ThinkingConfig{IncludeThoughts: true},
		}

		count := 0
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), config) {
			if err != nil {
				errs <- fmt.Errorf("gemini: stream failed: %w", err)
				return
			}
			for _, f := range fragmentsFrom(resp) {
				select {
				case frags <- f:
					count++
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}

		c.logger.Debug("generation stream complete",
			zap.String("model", c.model),
			zap.Int("fragments", count),
			zap.Duration("elapsed", time.Since(start)))
	}()

	return frags, errs
}

// fragmentsFrom flattens one streamed chunk into fragments. Empty-text
// parts (pure function-call or metadata parts) are dropped.
func fragmentsFrom(resp *genai.GenerateContentResponse) []stream.Fragment {
	var out []stream.Fragment
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			out = append(out, stream.Fragment{Text: part.Text, Thought: part.Thought})
		}
	}
	return out
}
