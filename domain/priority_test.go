package domain

import "testing"

func TestParsePriority(t *testing.T) {
	cases := []struct {
		raw  string
		want Priority
	}{
		{"low", PriorityLow},
		{"LOW", PriorityLow},
		{"Medium", PriorityMedium},
		{" high ", PriorityHigh},
	}
	for _, tc := range cases {
		got, err := ParsePriority(tc.raw)
		if err != nil {
			t.Fatalf("ParsePriority(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePriority(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParsePriorityRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "urgent", "hi", "critical"} {
		if _, err := ParsePriority(raw); err == nil {
			t.Fatalf("ParsePriority(%q) error = nil, want invalid", raw)
		}
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	if PriorityHigh.Rank() <= PriorityMedium.Rank() || PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Fatalf("ranks not strictly ordered: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}

func TestPriorityLabel(t *testing.T) {
	if got := PriorityHigh.Label(); got != "High" {
		t.Fatalf("Label() = %q, want High", got)
	}
}
