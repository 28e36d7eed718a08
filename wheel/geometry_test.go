// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wheel

import "testing"

func TestLayout(t *testing.T) {
	segments := Layout(4)
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}

	for i, s := range segments {
		if s.Index != i {
			t.Errorf("segment %d: expected index %d, got %d", i, i, s.Index)
		}
		if s.StartAngle != float64(i)*90 {
			t.Errorf("segment %d: expected start %v, got %v", i, float64(i)*90, s.StartAngle)
		}
		if s.EndAngle != float64(i+1)*90 {
			t.Errorf("segment %d: expected end %v, got %v", i, float64(i+1)*90, s.EndAngle)
		}
		if s.CenterAngle != float64(i)*90+45 {
			t.Errorf("segment %d: expected center %v, got %v", i, float64(i)*90+45, s.CenterAngle)
		}
		if s.LargeArc {
			t.Errorf("segment %d: quarter slice should not be a large arc", i)
		}
	}
}

func TestLayout_Edges(t *testing.T) {
	if got := Layout(0); got != nil {
		t.Errorf("expected nil for zero slices, got %v", got)
	}
	if got := Layout(-3); got != nil {
		t.Errorf("expected nil for negative slices, got %v", got)
	}

	single := Layout(1)
	if len(single) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(single))
	}
	if !single[0].LargeArc {
		t.Error("a full-wheel slice should be a large arc")
	}
	if single[0].EndAngle != 360 {
		t.Errorf("expected end angle 360, got %v", single[0].EndAngle)
	}
}

func TestSliceAt(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		n        int
		want     int
	}{
		{"no slices", 0, 0, -1},
		{"unrotated", 0, 4, 0},
		{"back one quarter", -100, 4, 1},
		{"forward past a quarter", 100, 4, 2},
		{"center of last slice", 45, 4, 3},
		{"many turns", 360*6 + 315, 4, 0},
		{"negative many turns", -(360*3 + 200), 4, 2},
		{"single slice", 1234.5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SliceAt(tt.rotation, tt.n); got != tt.want {
				t.Errorf("SliceAt(%v, %d) = %d, want %d", tt.rotation, tt.n, got, tt.want)
			}
		})
	}
}
