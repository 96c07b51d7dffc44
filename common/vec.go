package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up   = mgl64.Vec3{0, 1, 0}
	Down = mgl64.Vec3{0, -1, 0}
)

const (
	normalizeEpsilon = 1e-9
	oppositeEpsilon  = 1e-9
)

// Normalize returns the unit vector of v, or the zero vector when v has no
// meaningful length. mgl64's Normalize divides by zero instead.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < normalizeEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func IsZero(v mgl64.Vec3) bool {
	return v.LenSqr() < normalizeEpsilon*normalizeEpsilon
}

// Flatten drops the vertical component.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// ProjectOnPlane removes the component of v along the plane normal.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	n := Normalize(normal)
	if IsZero(n) {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n)))
}

// AngleDegrees is the unsigned angle between a and b.
func AngleDegrees(a, b mgl64.Vec3) float64 {
	denom := a.Len() * b.Len()
	if denom < normalizeEpsilon {
		return 0
	}
	cos := mgl64.Clamp(a.Dot(b)/denom, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Slerp spherically interpolates between a and b treated as directions from
// the origin, with the magnitude interpolated linearly. t is clamped to
// [0, 1]. Zero-length and opposite inputs fall back to a linear blend, since
// the rotation between them has no preferred axis.
func Slerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	la, lb := a.Len(), b.Len()
	if la < normalizeEpsilon || lb < normalizeEpsilon {
		return LerpVec(a, b, t)
	}
	from := a.Mul(1 / la)
	to := b.Mul(1 / lb)
	if from.Dot(to) < -1+oppositeEpsilon {
		return LerpVec(a, b, t)
	}
	rot := mgl64.QuatSlerp(mgl64.QuatIdent(), mgl64.QuatBetweenVectors(from, to), t)
	return rot.Rotate(from).Mul(Lerp(la, lb, t))
}
