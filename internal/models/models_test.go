package models

import (
	"testing"
	"time"
)

func TestPlanWindow(t *testing.T) {
	tests := []struct {
		name string
		plan *Plan
		want *Window
	}{
		{
			name: "nil plan",
			plan: nil,
			want: nil,
		},
		{
			name: "empty plan",
			plan: &Plan{},
			want: nil,
		},
		{
			name: "server window wins",
			plan: &Plan{
				Window: &Window{Start: "2026-09-01", End: "2026-09-07"},
				Days:   []PlanDay{{Date: "2026-09-03"}},
			},
			want: &Window{Start: "2026-09-01", End: "2026-09-07"},
		},
		{
			name: "derived from unordered days",
			plan: &Plan{
				Days: []PlanDay{
					{Date: "2026-09-03"},
					{Date: "2026-09-01"},
					{Date: "2026-09-02"},
				},
			},
			want: &Window{Start: "2026-09-01", End: "2026-09-03"},
		},
		{
			name: "dateless days yield nothing",
			plan: &Plan{Days: []PlanDay{{}, {}}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.plan.PlanWindow()
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("PlanWindow() = %v, want %v", got, tt.want)
			}
			if got != nil && (got.Start != tt.want.Start || got.End != tt.want.End) {
				t.Errorf("PlanWindow() = %s..%s, want %s..%s",
					got.Start, got.End, tt.want.Start, tt.want.End)
			}
		})
	}
}

func TestNewLocalGroceryID(t *testing.T) {
	at := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	if got := NewLocalGroceryID(at); got != at.UnixMilli() {
		t.Errorf("NewLocalGroceryID = %d, want %d", got, at.UnixMilli())
	}
	// Millisecond identities from different instants must differ; equal
	// instants are the caller's problem, not an identity-space collision.
	later := NewLocalGroceryID(at.Add(time.Millisecond))
	if later == NewLocalGroceryID(at) {
		t.Error("distinct instants should give distinct local ids")
	}
}
