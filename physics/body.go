package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/terrain"
)

// ForceMode selects how AddForce is applied.
type ForceMode int

const (
	// ForceAcceleration is integrated over the next Step.
	ForceAcceleration ForceMode = iota
	// ForceVelocityChange is applied to the velocity immediately.
	ForceVelocityChange
)

// Body is a uniformly scaled sphere. Scale is its diameter.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Scale    float64
	Forward  mgl64.Vec3

	// Kinematic bodies are moved by setting Position; Step ignores forces.
	Kinematic bool
	// ContactMask selects which geometry the body rests on.
	ContactMask terrain.LayerMask

	accel     mgl64.Vec3
	lastAccel mgl64.Vec3
}

// NewBody creates a body resting nowhere in particular.
func NewBody(position mgl64.Vec3, scale float64) *Body {
	return &Body{
		Position:    position,
		Scale:       scale,
		Forward:     mgl64.Vec3{0, 0, 1},
		ContactMask: terrain.LayerTerrain,
	}
}

func (b *Body) HalfScale() float64 {
	if b == nil {
		return 0
	}
	return b.Scale / 2
}

func (b *Body) AddForce(v mgl64.Vec3, mode ForceMode) {
	if b == nil {
		return
	}
	switch mode {
	case ForceVelocityChange:
		b.Velocity = b.Velocity.Add(v)
	default:
		b.accel = b.accel.Add(v)
	}
}

// PendingAcceleration is the acceleration queued for the next Step.
func (b *Body) PendingAcceleration() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.accel
}

// LastAcceleration is the acceleration integrated by the previous Step.
func (b *Body) LastAcceleration() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.lastAccel
}

// Stop clears velocity and queued forces.
func (b *Body) Stop() {
	if b == nil {
		return
	}
	b.Velocity = mgl64.Vec3{}
	b.accel = mgl64.Vec3{}
}

// SetForward orients the body along the horizontal part of dir. A vertical
// or zero dir leaves the orientation unchanged.
func (b *Body) SetForward(dir mgl64.Vec3) {
	if b == nil {
		return
	}
	flat := common.Normalize(common.Flatten(dir))
	if common.IsZero(flat) {
		return
	}
	b.Forward = flat
}

// Step integrates queued forces with semi-implicit Euler, then resolves
// contact with ground below. ground may be nil.
func (b *Body) Step(dt float64, ground terrain.Query) {
	if b == nil {
		return
	}
	b.lastAccel = b.accel
	b.accel = mgl64.Vec3{}
	if b.Kinematic || dt <= 0 {
		b.lastAccel = mgl64.Vec3{}
		return
	}

	b.Velocity = b.Velocity.Add(b.lastAccel.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	b.resolveContact(ground)
}

func (b *Body) resolveContact(ground terrain.Query) {
	if ground == nil || b.ContactMask == 0 {
		return
	}
	r := b.HalfScale()
	hit, ok := ground.RaycastDown(b.Position.Add(common.Up.Mul(r)), b.ContactMask)
	if !ok {
		return
	}
	bottom := b.Position.Y() - r
	if hit.Point.Y() <= bottom {
		return
	}

	b.Position = mgl64.Vec3{b.Position.X(), hit.Point.Y() + r, b.Position.Z()}
	n := common.Normalize(hit.Normal)
	if common.IsZero(n) {
		n = common.Up
	}
	if into := b.Velocity.Dot(n); into < 0 {
		b.Velocity = b.Velocity.Sub(n.Mul(into))
	}
}
