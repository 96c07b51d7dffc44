package common

import "sort"

// Curve maps a normalized input onto a response value.
type Curve interface {
	Evaluate(x float64) float64
}

// CurveFunc adapts a plain function to Curve.
type CurveFunc func(x float64) float64

func (f CurveFunc) Evaluate(x float64) float64 { return f(x) }

// LinearCurve returns x scaled by Gain.
type LinearCurve struct {
	Gain float64
}

func (c LinearCurve) Evaluate(x float64) float64 { return x * c.Gain }

// Keyframe is a single (x, y) control point.
type Keyframe struct {
	X, Y float64
}

// KeyframeCurve interpolates linearly between keyframes and holds the end
// values outside the keyed range.
type KeyframeCurve struct {
	keys []Keyframe
}

// NewKeyframeCurve sorts a copy of keys by X.
func NewKeyframeCurve(keys ...Keyframe) *KeyframeCurve {
	sorted := append([]Keyframe(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return &KeyframeCurve{keys: sorted}
}

func (c *KeyframeCurve) Evaluate(x float64) float64 {
	if c == nil || len(c.keys) == 0 {
		return 0
	}
	if x <= c.keys[0].X {
		return c.keys[0].Y
	}
	last := c.keys[len(c.keys)-1]
	if x >= last.X {
		return last.Y
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].X >= x })
	lo, hi := c.keys[i-1], c.keys[i]
	return Lerp(lo.Y, hi.Y, InverseLerp(lo.X, hi.X, x))
}

// Keys returns a copy of the control points.
func (c *KeyframeCurve) Keys() []Keyframe {
	if c == nil {
		return nil
	}
	return append([]Keyframe(nil), c.keys...)
}

// EvaluateCurve treats a nil curve as the identity.
func EvaluateCurve(c Curve, x float64) float64 {
	if c == nil {
		return x
	}
	return c.Evaluate(x)
}
