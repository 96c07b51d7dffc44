package component

import "github.com/go-gl/mathgl/mgl64"

// Transition is the scratch context of the current state. It is reset on
// every state change and never carried across states.
type Transition struct {
	Position    mgl64.Vec3
	HasPosition bool
	Time        float64
}

// Reset clears the context for a freshly entered state.
func (t *Transition) Reset() {
	if t == nil {
		return
	}
	*t = Transition{}
}

// CapturePosition records p unless a position is already held.
func (t *Transition) CapturePosition(p mgl64.Vec3) {
	if t == nil || t.HasPosition {
		return
	}
	t.Position = p
	t.HasPosition = true
}
