package component

import "github.com/go-gl/mathgl/mgl64"

// VisualSink receives cosmetic notifications from the player. A nil sink is
// valid everywhere a sink is accepted.
type VisualSink interface {
	OnEnterState(state PlayerStateID)
	OnTick(state PlayerStateID, velocity mgl64.Vec3, height float64)
}

// NopVisualSink ignores everything.
type NopVisualSink struct{}

func (NopVisualSink) OnEnterState(PlayerStateID) {}
func (NopVisualSink) OnTick(PlayerStateID, mgl64.Vec3, float64) {}
