package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
)

// CameraRig holds the follow values a renderer should use. Nothing in the
// simulation reads Distance or Height; Forward is fed back as the
// camera-forward input of the next frame.
type CameraRig struct {
	Distance float64
	Height   float64
	Forward  mgl64.Vec3

	cfg component.CameraConfig
}

// NewCameraRig starts the rig at the values for scale, facing forward.
func NewCameraRig(cfg component.CameraConfig, scale float64, forward mgl64.Vec3) *CameraRig {
	r := &CameraRig{cfg: cfg}
	r.Distance, r.Height = r.targets(scale)
	r.Forward = common.Normalize(common.Flatten(forward))
	if common.IsZero(r.Forward) {
		r.Forward = mgl64.Vec3{0, 0, 1}
	}
	return r
}

func (r *CameraRig) SetConfig(cfg component.CameraConfig) {
	if r == nil {
		return
	}
	r.cfg = cfg
}

func (r *CameraRig) Config() component.CameraConfig {
	return r.cfg
}

// Update eases the rig towards the player's current scale and heading.
func (r *CameraRig) Update(dt, scale float64, forward mgl64.Vec3) {
	if r == nil {
		return
	}
	t := common.Clamp01(dt * r.cfg.Smoothness)
	distance, height := r.targets(scale)
	r.Distance = common.Lerp(r.Distance, distance, t)
	r.Height = common.Lerp(r.Height, height, t)

	target := common.Normalize(common.Flatten(forward))
	if common.IsZero(target) {
		return
	}
	next := common.Normalize(common.Flatten(common.Slerp(r.Forward, target, t)))
	if !common.IsZero(next) {
		r.Forward = next
	}
}

func (r *CameraRig) targets(scale float64) (distance, height float64) {
	return r.cfg.BaseDistance + scale*r.cfg.DistancePerScale,
		r.cfg.BaseHeight + scale*r.cfg.HeightPerScale
}
