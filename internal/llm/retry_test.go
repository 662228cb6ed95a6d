package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// recordingRetry wraps p and records the waits instead of sleeping.
func recordingRetry(p Provider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	r := WithRetry(p, cfg, nil).(*RetryProvider)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func okResponse() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
}

func downResponse() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt", responses: []MockResponse{okResponse()}, wantCalls: 1},
		{name: "transient then success", responses: []MockResponse{downResponse(), okResponse()}, wantCalls: 2},
		{name: "all attempts fail", responses: []MockResponse{downResponse(), downResponse(), downResponse(), okResponse()}, wantCalls: 3, wantErr: true},
		{name: "plain error is transient", responses: []MockResponse{{Err: errors.New("connection reset")}, okResponse()}, wantCalls: 2},
		{
			name:      "max tokens not retried",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okResponse()},
			wantCalls: 1, wantErr: true,
		},
		{
			name:      "bad request not retried",
			responses: []MockResponse{{Err: &ErrBadRequest{StatusCode: 401, Err: errors.New("bad key")}}, okResponse()},
			wantCalls: 1, wantErr: true,
		},
		{
			name: "invalid response retried once",
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
				okResponse(),
			},
			wantCalls: 2, wantErr: true,
		},
		{
			name:      "timeout not retried",
			responses: []MockResponse{{Err: context.DeadlineExceeded}, okResponse()},
			wantCalls: 1, wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p, _ := recordingRetry(mock, retryConfig())

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(resp.Content) != `{"ok":true}` {
				t.Fatalf("unexpected content: %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, mock.CallCount())
			}
		})
	}
}

func TestRetry_ZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(okResponse())
	p, _ := recordingRetry(mock, RetryConfig{})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancellationStopsWaiting(t *testing.T) {
	mock := NewMockProvider(downResponse(), downResponse(), okResponse())
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 7 * time.Second, Err: errors.New("429")}},
		okResponse(),
	)
	p, waits := recordingRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 7*time.Second {
		t.Fatalf("waits = %v, want [7s]", *waits)
	}
}

func TestRetry_BackoffGrowsAndCaps(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}
	mock := NewMockProvider(downResponse(), downResponse(), downResponse(), downResponse(), downResponse())
	p, waits := recordingRetry(mock, cfg)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	bounds := []struct{ lo, hi time.Duration }{
		{80 * time.Millisecond, 120 * time.Millisecond},
		{160 * time.Millisecond, 240 * time.Millisecond},
		{240 * time.Millisecond, 360 * time.Millisecond},
		{240 * time.Millisecond, 360 * time.Millisecond},
	}
	if len(*waits) != len(bounds) {
		t.Fatalf("expected %d waits, got %v", len(bounds), *waits)
	}
	for i, b := range bounds {
		if w := (*waits)[i]; w < b.lo || w > b.hi {
			t.Errorf("wait %d = %s, want within [%s, %s]", i, w, b.lo, b.hi)
		}
	}
}

func TestRetry_LogsEachRetry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mock := NewMockProvider(downResponse(), okResponse())
	r := WithRetry(mock, retryConfig(), zap.New(core)).(*RetryProvider)
	r.sleep = func(context.Context, time.Duration) error { return nil }

	ctx := WithRunID(WithPurpose(context.Background(), "backfill"), "run-9")
	if _, err := r.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := logs.FilterMessage("llm.retry").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 llm.retry entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["reason"] != "unavailable" || fields["purpose"] != "backfill" || fields["run_id"] != "run-9" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig(), nil)
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
