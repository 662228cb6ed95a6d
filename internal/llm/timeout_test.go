package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// blockingProvider waits for the context to end.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestTimeout_ReportsErrTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	var te *ErrTimeout
	if !errors.As(err, &te) {
		t.Fatalf("expected *ErrTimeout, got %T: %v", err, err)
	}
	if te.After != 5*time.Millisecond {
		t.Errorf("After = %s, want 5ms", te.After)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected wrapped context.DeadlineExceeded")
	}
}

func TestTimeout_ParentCancelIsNotTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	var te *ErrTimeout
	if errors.As(err, &te) {
		t.Fatal("parent cancellation should not be reported as a timeout")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTimeout_PassesThroughSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	p := WithTimeout(mock, time.Second)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q, want mock", p.ModelID())
	}
}

func TestWithTimeout_ZeroIsNoop(t *testing.T) {
	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Error("expected zero timeout to return the provider unchanged")
	}
}

func TestTiers_SelectModel(t *testing.T) {
	tiers := Tiers{Free: "gpt-4o-mini", Paid: "gpt-4o"}
	if got := tiers.SelectModel(false); got != "gpt-4o-mini" {
		t.Errorf("free = %q", got)
	}
	if got := tiers.SelectModel(true); got != "gpt-4o" {
		t.Errorf("paid = %q", got)
	}
	if got := (Tiers{Free: "x"}).SelectModel(true); got != "x" {
		t.Errorf("paid fallback = %q, want x", got)
	}
}
