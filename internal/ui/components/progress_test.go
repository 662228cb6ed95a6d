package components

import (
	"strings"
	"testing"
)

func TestProgressBar_Filled(t *testing.T) {
	tests := []struct {
		percent int
		want    int
	}{
		{-10, 0},
		{0, 0},
		{50, 10},
		{100, 20},
		{140, 20},
	}
	for _, tt := range tests {
		if got := NewProgressBar("", tt.percent, false, 20).Filled(20); got != tt.want {
			t.Errorf("Filled(%d%%) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}

func TestProgressBar_ViewShowsPercent(t *testing.T) {
	view := NewProgressBar("Generating", 75, true, 40).View()
	if !strings.Contains(view, "75%") || !strings.Contains(view, "Generating") {
		t.Errorf("unexpected view: %q", view)
	}
}
