package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		id     string
		want   *ModelCost
		reason string
	}{
		{"gpt-4o-mini", &ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}, "exact"},
		{"claude-sonnet-4-20250514", &ModelCost{InputPerMTok: 3, OutputPerMTok: 15}, "dated suffix"},
		{"anthropic/claude-haiku-4-5-20251001", &ModelCost{InputPerMTok: 1, OutputPerMTok: 5}, "vendor prefix"},
		{"models/gemini-2.0-flash", &ModelCost{InputPerMTok: 0.1, OutputPerMTok: 0.4}, "models prefix"},
		{"google/gemini-2.0-flash-exp", &ModelCost{InputPerMTok: 0.1, OutputPerMTok: 0.4}, "exp suffix"},
		{"GPT-4o", &ModelCost{InputPerMTok: 2.5, OutputPerMTok: 10}, "case"},
		{"meta-llama/llama-3.3-70b-instruct:free", &ModelCost{}, "free variant"},
		{"mock", nil, "unknown"},
		{":free", nil, "bare free tag"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			got := LookupCost(tt.id)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("LookupCost(%q) = %+v, want nil", tt.id, *got)
			case tt.want != nil && got == nil:
				t.Errorf("LookupCost(%q) = nil, want %+v", tt.id, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("LookupCost(%q) = %+v, want %+v", tt.id, *got, *tt.want)
			}
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 3, OutputPerMTok: 15}
	got := c.Cost(2000, 1000)
	if math.Abs(got-0.021) > 1e-9 {
		t.Fatalf("Cost = %f, want 0.021", got)
	}
}
