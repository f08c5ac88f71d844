package registryclient

import (
	"net/http"
	"testing"
	"time"
)

func TestExponentialBackoff_Doubles(t *testing.T) {
	backoff := &ExponentialBackoff{BaseDelay: time.Second, Multiplier: 2.0, Jitter: false}

	if d := backoff.NextDelay(0); d != time.Second {
		t.Errorf("expected 1s at attempt 0, got %v", d)
	}
	if d := backoff.NextDelay(1); d != 2*time.Second {
		t.Errorf("expected 2s at attempt 1, got %v", d)
	}
	if d := backoff.NextDelay(2); d != 4*time.Second {
		t.Errorf("expected 4s at attempt 2, got %v", d)
	}
}

func TestExponentialBackoff_CapsAtMaxDelay(t *testing.T) {
	backoff := &ExponentialBackoff{BaseDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2.0, Jitter: false}
	if d := backoff.NextDelay(10); d > 5*time.Second {
		t.Errorf("expected delay capped at 5s, got %v", d)
	}
}

func TestNewExponentialBackoff_Defaults(t *testing.T) {
	backoff := NewExponentialBackoff(time.Second)
	if backoff.MaxDelay != 30*time.Second {
		t.Errorf("expected default max delay of 30s, got %v", backoff.MaxDelay)
	}
	if !backoff.Jitter {
		t.Error("expected jitter enabled by default")
	}
}

func TestRetryAfter_DeltaSeconds(t *testing.T) {
	d, ok := RetryAfter("120")
	if !ok {
		t.Fatal("expected ok=true for a delta-seconds header")
	}
	if d != 120*time.Second {
		t.Errorf("expected 120s, got %v", d)
	}
}

func TestRetryAfter_HTTPDate(t *testing.T) {
	future := time.Now().Add(2 * time.Minute).UTC().Format(http.TimeFormat)
	d, ok := RetryAfter(future)
	if !ok {
		t.Fatal("expected ok=true for an HTTP-date header")
	}
	if d <= 0 || d > 2*time.Minute+time.Second {
		t.Errorf("expected roughly 2m, got %v", d)
	}
}

func TestRetryAfter_EmptyOrMalformed(t *testing.T) {
	if _, ok := RetryAfter(""); ok {
		t.Error("expected ok=false for an empty header")
	}
	if _, ok := RetryAfter("not-a-valid-value"); ok {
		t.Error("expected ok=false for a malformed header")
	}
	if _, ok := RetryAfter("-5"); ok {
		t.Error("expected ok=false for a negative delta")
	}
}
