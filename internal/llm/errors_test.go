package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		status int
		check  func(err error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusRequestTimeout, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusServiceUnavailable, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{529, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusBadRequest, func(err error) bool { var e *ErrBadRequest; return errors.As(err, &e) && e.StatusCode == 400 }},
		{http.StatusForbidden, func(err error) bool { var e *ErrBadRequest; return errors.As(err, &e) }},
		{0, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		err := classifyStatus(context.Background(), tt.status, nil, cause)
		if !tt.check(err) {
			t.Errorf("status %d classified as %T (%v)", tt.status, err, err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("status %d lost the cause", tt.status)
		}
	}
}

func TestClassifyStatus_CanceledContextWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := classifyStatus(ctx, http.StatusServiceUnavailable, nil, errors.New("connection reset"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		t.Error("cancellation should not look like an outage")
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "12", 12 * time.Second},
		{"http date", now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"capped", "3600", maxRetryAfter},
		{"negative", "-5", 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			if got := retryAfter(h, now); got != tt.want {
				t.Errorf("retryAfter(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
	if got := retryAfter(nil, now); got != 0 {
		t.Errorf("nil header = %s", got)
	}
}
