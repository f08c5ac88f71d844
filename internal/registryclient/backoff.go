// Adapted from the teacher's internal/v1/http.ExponentialBackoff — the
// v1 HTTP client (superseded by internal/http, which is what client.go
// itself is grounded on) offered Linear/Fixed/Custom backoff strategies
// alongside the exponential one; only the exponential strategy survives
// here, since a registry client has no call site asking for the others.
package registryclient

import (
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// ExponentialBackoff doubles the delay on each attempt, optionally jittered.
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

// NextDelay returns the delay before the given retry attempt (0-based).
func (e *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2.0
	}

	delay := float64(e.BaseDelay) * math.Pow(multiplier, float64(attempt))
	if e.MaxDelay > 0 && time.Duration(delay) > e.MaxDelay {
		delay = float64(e.MaxDelay)
	}
	if e.Jitter {
		delay += delay * 0.25 * (rand.Float64()*2 - 1)
	}
	if delay < 0 {
		delay = float64(e.BaseDelay)
	}
	return time.Duration(delay)
}

// NewExponentialBackoff creates an ExponentialBackoff with a 30s cap and jitter enabled.
func NewExponentialBackoff(baseDelay time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{BaseDelay: baseDelay, MaxDelay: 30 * time.Second, Multiplier: 2.0, Jitter: true}
}

// RetryAfter parses an HTTP Retry-After response header the way a
// registry's rate limiter sends it: either delta-seconds ("120") or an
// HTTP-date. It has no equivalent in the teacher's backoff strategies,
// which always compute a delay client-side — a registry under load is
// better honored on its own terms than guessed at with local backoff.
// ok is false when header is empty, malformed, or names a past time, in
// which case the caller should fall back to its own backoff strategy.
func RetryAfter(header string) (delay time.Duration, ok bool) {
	if header == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(header); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0, false
		}
		return d, true
	}
	return 0, false
}
