package common

import (
	"math"
	"testing"
)

func TestRemap(t *testing.T) {
	cases := []struct {
		name                    string
		v, inMin, inMax, lo, hi float64
		want                    float64
	}{
		{"start", 0, 0, 500, 0.01, 1.5, 0.01},
		{"end", 500, 0, 500, 0.01, 1.5, 1.5},
		{"middle", 250, 0, 500, 0, 1, 0.5},
		{"beyond_unclamped", 1000, 0, 500, 0, 1, 2},
		{"equal_bounds", 7, 3, 3, 2, 9, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Remap(c.v, c.inMin, c.inMax, c.lo, c.hi)
			if math.Abs(got-c.want) > 1e-12 {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	for _, c := range []struct{ in, want float64 }{{-1, 0}, {0.25, 0.25}, {3, 1}} {
		if got := Clamp01(c.in); got != c.want {
			t.Fatalf("Clamp01(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestRNGRangeDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 100; i++ {
		x, y := a.Range(-200, 200), b.Range(-200, 200)
		if x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x < -200 || x >= 200 {
			t.Fatalf("draw %d out of range: %v", i, x)
		}
	}
	if v := a.Range(5, -5); v < -5 || v >= 5 {
		t.Fatalf("inverted bounds should be swapped, got %v", v)
	}
}
