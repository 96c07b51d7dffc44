package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegenerateEpsilon is the squared cross-product magnitude under which three
// points are treated as collinear.
const DegenerateEpsilon = 1e-5

// Circle is the circle passing through three points.
type Circle struct {
	Center mgl64.Vec3
	Normal mgl64.Vec3
	Radius float64
}

// Undefined reports whether the circle came from degenerate input.
func (c Circle) Undefined() bool {
	return math.IsNaN(c.Center.X()) || math.IsNaN(c.Center.Y()) || math.IsNaN(c.Center.Z())
}

var undefinedCircle = Circle{
	Center: mgl64.Vec3{math.NaN(), math.NaN(), math.NaN()},
	Normal: mgl64.Vec3{math.NaN(), math.NaN(), math.NaN()},
	Radius: math.NaN(),
}

// CircleCenter returns the circumscribed circle of p0, p1, p2. The centre is
// found where the perpendicular bisectors of the chords p0p1 and p0p2 meet
// inside the plane of the triangle; the radius follows from the law of sines
// (R = |p1-p2| / (2 sin angle at p0)).
//
// Collinear or coincident points yield a circle whose fields are all NaN and
// ok=false. Callers must check ok before comparing against the centre.
func CircleCenter(p0, p1, p2 mgl64.Vec3) (Circle, bool) {
	a := p1.Sub(p0)
	b := p2.Sub(p0)
	n := a.Cross(b)
	nn := n.LenSqr()
	if nn < DegenerateEpsilon || !IsFinite(nn) {
		return undefinedCircle, false
	}

	// Bisector intersection, expressed relative to p0.
	offset := b.Mul(a.LenSqr()).Sub(a.Mul(b.LenSqr())).Cross(n).Mul(1 / (2 * nn))

	sinA := math.Sqrt(nn) / (a.Len() * b.Len())
	radius := p1.Sub(p2).Len() / (2 * sinA)

	return Circle{
		Center: p0.Add(offset),
		Normal: n.Mul(1 / math.Sqrt(nn)),
		Radius: radius,
	}, true
}
