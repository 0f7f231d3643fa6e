package scoring

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"

	"cvai-core/internal/llm"
)

const llmRetryBaseDelay = 300 * time.Millisecond

var errStopRetry = errors.New("stop retry")

// newRepeater builds the retry policy for attempts total calls.
func newRepeater(attempts int) *repeater.Repeater {
	if attempts <= 1 {
		return repeater.New(&strategy.Once{})
	}
	return repeater.New(&strategy.Backoff{
		Repeats:  attempts,
		Duration: llmRetryBaseDelay,
		Factor:   2,
		Jitter:   true,
	})
}

// retry runs fn under r, repeating only errors shouldRetryLLM accepts.
func retry(ctx context.Context, r *repeater.Repeater, fn func() error) error {
	var permanent error
	var last error
	err := r.Do(ctx, func() error {
		callErr := fn()
		if callErr == nil {
			return nil
		}
		last = callErr
		if !shouldRetryLLM(callErr) {
			permanent = callErr
			return errStopRetry
		}
		return callErr
	}, errStopRetry)
	switch {
	case permanent != nil:
		return permanent
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case last != nil:
		return last
	default:
		return err
	}
}

func shouldRetryLLM(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, llm.ErrTransient) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout")
}
