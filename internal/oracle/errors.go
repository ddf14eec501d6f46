// Package oracle talks to the external natural-language scoring and
// optimization service. The oracle's output is always treated as an
// untrusted proposal; this package only guarantees delivery, typed
// failure classification and JSON extraction — semantic validation
// belongs to the calling service.
package oracle

import "errors"

// Typed failure classes, replacing exception-string sniffing. The chain
// reacts differently to each: quota advances to the next model (after one
// bounded retry), an unusable response advances immediately, anything
// else is fatal for the whole call.
var (
	// ErrQuota marks rate-limit/capacity failures (HTTP 429/529 class).
	ErrQuota = errors.New("oracle: quota exhausted")

	// ErrModelNotFound marks an unknown model identifier.
	ErrModelNotFound = errors.New("oracle: model not found")

	// ErrBadResponse marks a response that carried no usable JSON.
	ErrBadResponse = errors.New("oracle: unusable response")

	// ErrExhausted is returned once every configured model has failed.
	// It wraps the last underlying error.
	ErrExhausted = errors.New("oracle: all models exhausted")
)

// retryable reports whether the chain should advance to the next model.
func retryable(err error) bool {
	return errors.Is(err, ErrQuota) || errors.Is(err, ErrModelNotFound) || errors.Is(err, ErrBadResponse)
}
