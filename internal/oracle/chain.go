package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// invoker sends one prompt to one named model.
type invoker interface {
	Invoke(ctx context.Context, model, prompt string) (string, error)
}

// Chain walks an ordered list of model identifiers until one produces a
// decodable JSON response.
//
// Failure policy per model: a quota-class error gets one bounded
// retry-with-delay on the same model before advancing; an unknown model
// or unusable response advances immediately; any other error is fatal
// and terminates the chain. When every model has failed the caller gets
// a single terminal error wrapping the last cause.
type Chain struct {
	inv        invoker
	models     []string
	retryDelay time.Duration
	log        *slog.Logger
}

// NewChain creates a fallback chain over the given model priority list.
func NewChain(inv invoker, models []string, retryDelay time.Duration, logger *slog.Logger) *Chain {
	return &Chain{
		inv:        inv,
		models:     models,
		retryDelay: retryDelay,
		log:        logger.With("component", "oracle_chain"),
	}
}

// Complete sends the prompt through the chain, extracts the first JSON
// object from the winning response and unmarshals it into out.
func (c *Chain) Complete(ctx context.Context, prompt string, out any) error {
	var lastErr error

	for _, model := range c.models {
		text, err := c.invokeWithRetry(ctx, model, prompt)
		if err == nil {
			err = decodeJSON(text, out)
			if err == nil {
				return nil
			}
		}

		if !retryable(err) {
			return err
		}

		c.log.WarnContext(ctx, "oracle model failed, advancing",
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		lastErr = err
	}

	return fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

// invokeWithRetry performs one call, retrying a single time after a delay
// when the failure is quota-class.
func (c *Chain) invokeWithRetry(ctx context.Context, model, prompt string) (string, error) {
	text, err := c.inv.Invoke(ctx, model, prompt)
	if err == nil || !isQuota(err) {
		return text, err
	}

	c.log.WarnContext(ctx, "oracle quota hit, retrying once",
		slog.String("model", model),
		slog.Duration("delay", c.retryDelay),
	)

	select {
	case <-time.After(c.retryDelay):
	case <-ctx.Done():
		return "", fmt.Errorf("oracle: %s: %w", model, ctx.Err())
	}

	return c.inv.Invoke(ctx, model, prompt)
}

func isQuota(err error) bool {
	return errors.Is(err, ErrQuota)
}

// decodeJSON extracts the first complete JSON object from a model
// response (models wrap JSON in prose or markdown fences) and unmarshals
// it. Any failure is classified as an unusable response so the chain
// advances to the next model.
func decodeJSON(text string, out any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("%w: no JSON object in response", ErrBadResponse)
	}

	raw := []byte(text[start : end+1])
	if !json.Valid(raw) {
		return fmt.Errorf("%w: invalid JSON in response", ErrBadResponse)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
