package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
)

// FadeVisualSink tracks the cosmetic blend values a renderer draws with:
// how visible the water and cloud bodies are, how strong the ground shadow
// is and how hard it is raining. All values are in [0, 1] except RainRate,
// which runs up to MaxRainRate.
type FadeVisualSink struct {
	// FrameDt is the length of the frame being ticked. The runner sets it
	// before each world update.
	FrameDt float64

	MaxHeight   float64
	CloudTime   float64
	MaxShadow   float64
	MaxRainRate float64

	WaterVisible bool
	CloudVisible bool
	WaterFade    float64
	CloudFade    float64
	Shadow       float64
	RainRate     float64

	Velocity mgl64.Vec3
	Height   float64
}

// NewFadeVisualSink starts fully faded out, as a raindrop.
func NewFadeVisualSink(maxHeight, cloudTime float64) *FadeVisualSink {
	return &FadeVisualSink{
		FrameDt:      1.0 / defaultTPS,
		MaxHeight:    maxHeight,
		CloudTime:    cloudTime,
		MaxShadow:    1,
		MaxRainRate:  1,
		WaterVisible: true,
	}
}

func (s *FadeVisualSink) OnEnterState(state component.PlayerStateID) {
	if s == nil {
		return
	}
	switch state {
	case component.StateWater:
		s.CloudVisible = false
		s.RainRate = 0
	case component.StateSteam:
		s.CloudVisible = true
		s.WaterVisible = false
	case component.StateRain:
		s.WaterVisible = true
	}
}

func (s *FadeVisualSink) OnTick(state component.PlayerStateID, velocity mgl64.Vec3, height float64) {
	if s == nil {
		return
	}
	s.Velocity = velocity
	s.Height = height
	dt := s.FrameDt

	switch state {
	case component.StateWater:
		s.WaterFade = approach(s.WaterFade, 1, dt)
		s.Shadow = approach(s.Shadow, s.MaxShadow, dt)
	case component.StateFloat:
		s.WaterFade = approach(s.WaterFade, 0, dt)
		s.Shadow = approach(s.Shadow, 0, dt)
	case component.StateSteam:
		if s.MaxHeight > 0 {
			s.CloudFade = common.Clamp01(height / s.MaxHeight)
		}
	case component.StateCloud:
		if s.CloudTime > 0 {
			s.RainRate = approach(s.RainRate, s.MaxRainRate, dt/s.CloudTime)
		}
	case component.StateRain:
		s.RainRate = approach(s.RainRate, 0, dt/2)
		s.CloudFade = approach(s.CloudFade, 0, dt/2)
	}
}

// approach lerps v towards target and snaps once it is within a hair.
func approach(v, target, t float64) float64 {
	if v == target {
		return v
	}
	next := common.Lerp(v, target, common.Clamp01(t))
	if d := next - target; d < 1e-4 && d > -1e-4 {
		return target
	}
	return next
}
