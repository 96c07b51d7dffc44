package common

import (
	"math"
	"testing"
)

func TestKeyframeCurve(t *testing.T) {
	curve := NewKeyframeCurve(
		Keyframe{X: 1, Y: 1},
		Keyframe{X: -1, Y: -1},
		Keyframe{X: -0.1, Y: 0},
		Keyframe{X: 0.1, Y: 0},
	)

	cases := []struct {
		name string
		x    float64
		want float64
	}{
		{"below_range_clamped", -5, -1},
		{"first_key", -1, -1},
		{"deadzone", 0, 0},
		{"ramp_middle", 0.55, 0.5},
		{"last_key", 1, 1},
		{"above_range_clamped", 3, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := curve.Evaluate(c.x); math.Abs(got-c.want) > 1e-12 {
				t.Fatalf("Evaluate(%v): expected %v, got %v", c.x, c.want, got)
			}
		})
	}

	keys := curve.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1].X > keys[i].X {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
}

func TestEvaluateCurve(t *testing.T) {
	if got := EvaluateCurve(nil, 0.3); got != 0.3 {
		t.Fatalf("nil curve should be identity, got %v", got)
	}
	if got := EvaluateCurve(LinearCurve{Gain: 2}, 0.25); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	square := CurveFunc(func(x float64) float64 { return x * x })
	if got := EvaluateCurve(square, -0.5); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	var empty *KeyframeCurve
	if got := empty.Evaluate(1); got != 0 {
		t.Fatalf("empty keyframe curve should give 0, got %v", got)
	}
}
