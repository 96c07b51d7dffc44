package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNormalizeZeroSafe(t *testing.T) {
	if got := Normalize(mgl64.Vec3{}); got != (mgl64.Vec3{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}
	if got := Normalize(mgl64.Vec3{3, 0, 4}); !got.ApproxEqualThreshold(mgl64.Vec3{0.6, 0, 0.8}, 1e-12) {
		t.Fatalf("unexpected unit vector %v", got)
	}
}

func TestProjectOnPlaneDownhill(t *testing.T) {
	normal := Normalize(mgl64.Vec3{1, 1, 0})
	downhill := Normalize(ProjectOnPlane(normal, Up))
	if !downhill.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Fatalf("expected +x downhill, got %v", downhill)
	}
	if got := Normalize(ProjectOnPlane(Up, Up)); !IsZero(got) {
		t.Fatalf("flat ground should have no downhill, got %v", got)
	}
}

func TestAngleDegrees(t *testing.T) {
	cases := []struct {
		name string
		a, b mgl64.Vec3
		want float64
	}{
		{"same", Up, Up, 0},
		{"right_angle", Up, mgl64.Vec3{1, 0, 0}, 90},
		{"slope_45", Up, mgl64.Vec3{1, 1, 0}, 45},
		{"zero_vector", Up, mgl64.Vec3{}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AngleDegrees(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestSlerp(t *testing.T) {
	start := mgl64.Vec3{10, 20, 10}
	end := mgl64.Vec3{10, 120, 10}

	if got := Slerp(start, end, 0); !got.ApproxEqualThreshold(start, 1e-9) {
		t.Fatalf("t=0: expected %v, got %v", start, got)
	}
	if got := Slerp(start, end, 1); !got.ApproxEqualThreshold(end, 1e-6) {
		t.Fatalf("t=1: expected %v, got %v", end, got)
	}
	if got := Slerp(start, end, 2); !got.ApproxEqualThreshold(end, 1e-6) {
		t.Fatalf("t>1 should clamp to the end, got %v", got)
	}

	mid := Slerp(start, end, 0.5)
	wantLen := (start.Len() + end.Len()) / 2
	if math.Abs(mid.Len()-wantLen) > 1e-9 {
		t.Fatalf("expected magnitude %v, got %v", wantLen, mid.Len())
	}
	if mid.Y() <= start.Y() || mid.Y() >= end.Y() {
		t.Fatalf("midpoint height %v should lie between %v and %v", mid.Y(), start.Y(), end.Y())
	}

	if got := Slerp(mgl64.Vec3{}, end, 0.5); !got.ApproxEqualThreshold(end.Mul(0.5), 1e-12) {
		t.Fatalf("zero start should fall back to lerp, got %v", got)
	}

	// Straight up through the origin: no sideways swing.
	below := mgl64.Vec3{0, -5, 0}
	if got := Slerp(below, end.Sub(mgl64.Vec3{10, 0, 10}), 0.5); !got.ApproxEqualThreshold(mgl64.Vec3{0, 57.5, 0}, 1e-9) {
		t.Fatalf("opposite directions should fall back to lerp, got %v", got)
	}
}
