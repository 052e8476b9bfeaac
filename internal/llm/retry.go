package llm

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
	"strings"
	"time"
)

const (
	maxRetries   = 3
	baseDelay    = 1 * time.Second
	maxDelay     = 16 * time.Second
	jitterFactor = 0.3
)

// withRetry runs fn with bounded exponential backoff on transient provider
// faults. Non-retryable errors are returned immediately. Retry policy lives
// at this boundary only; the executor and orchestrator never retry.
func withRetry(ctx context.Context, fn func() (string, error)) (string, error) {
	var out string
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDelay(attempt)):
			}
		}

		out, err = fn()
		if err == nil {
			return out, nil
		}
		if !isRetryable(err) {
			return "", err
		}
	}
	return "", err
}

func backoffDelay(attempt int) time.Duration {
	delay := float64(baseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	return time.Duration(delay * (1 + jitterFactor*randomUnit()))
}

// randomUnit returns a value in [0, 1). crypto/rand keeps security scanners
// quiet; entropy quality is irrelevant for jitter.
func randomUnit() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0.5
	}
	return float64(binary.LittleEndian.Uint64(buf[:])%1000) / 1000
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "timeout", "deadline", "503", "502", "overloaded", "connection reset"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
