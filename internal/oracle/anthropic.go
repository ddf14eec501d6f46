package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/daybalance/daybalance-backend/internal/config"
)

// AnthropicClient invokes a single model through the Anthropic Messages
// API and maps transport failures onto the package's typed error classes.
type AnthropicClient struct {
	client    anthropic.Client
	maxTokens int64
	timeout   time.Duration
	log       *slog.Logger
}

// NewAnthropicClient creates a client from oracle configuration.
func NewAnthropicClient(cfg config.OracleConfig, logger *slog.Logger) *AnthropicClient {
	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		log:       logger.With("adapter", "anthropic"),
	}
}

// Invoke sends one prompt to one model and returns the raw response text.
// Each call gets its own fixed timeout; an issued call runs to completion
// or timeout before the chain considers the next fallback.
func (c *AnthropicClient) Invoke(ctx context.Context, model, prompt string) (string, error) {
	// Caller cancellation does not interrupt an in-flight call; only the
	// fixed per-call timeout does.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	c.log.DebugContext(ctx, "oracle request", slog.String("model", model), slog.Int("prompt_len", len(prompt)))

	msg, err := c.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classify(err, model)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("%w: empty content from %s", ErrBadResponse, model)
	}

	return msg.Content[0].Text, nil
}

// classify maps an Anthropic API error onto a typed failure class.
func classify(err error, model string) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusTooManyRequests, 529: // 529 = overloaded
			return fmt.Errorf("%w: %s: %v", ErrQuota, model, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s: %v", ErrModelNotFound, model, err)
		}
	}
	return fmt.Errorf("oracle: %s: %w", model, err)
}
