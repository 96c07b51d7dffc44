package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/terrain"
)

// PlayerConfig is the tuning for the player state machine.
type PlayerConfig struct {
	SlopeVelocity   float64
	GravityVelocity float64
	InputVelocity   float64
	ForwardVelocity float64

	HorizontalCurve common.Curve
	ForwardCurve    common.Curve

	FloatTime       float64
	EvaporationTime float64
	CloudTime       float64
	RainRate        float64
	RainDamping     float64

	CloudHeight         float64
	WindVelocity        float64
	WindFalloffDistance float64
	WindFactorMin       float64
	WindFactorMax       float64

	RaycastLayers terrain.LayerMask
	SpawnPosition mgl64.Vec3
}

// DefaultPlayerConfig mirrors prefabs/tuning.yaml.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SlopeVelocity:       9.81,
		GravityVelocity:     9.81,
		InputVelocity:       4,
		ForwardVelocity:     4,
		HorizontalCurve:     common.LinearCurve{Gain: 1},
		ForwardCurve:        common.LinearCurve{Gain: 1},
		FloatTime:           4,
		EvaporationTime:     6,
		CloudTime:           15,
		RainRate:            0.5,
		RainDamping:         0.9,
		CloudHeight:         120,
		WindVelocity:        2,
		WindFalloffDistance: 500,
		WindFactorMin:       0.01,
		WindFactorMax:       1.5,
		RaycastLayers:       terrain.LayerAll,
		SpawnPosition:       mgl64.Vec3{40, 120, 40},
	}
}

// PickupConfig is the tuning for the water economy.
type PickupConfig struct {
	Population int
	StartScale float64

	XMin, XMax float64
	ZMin, ZMax float64

	SpawnAltitude        float64
	SampleRadius         float64
	MaxSlopeDegrees      float64
	MaxPlacementAttempts int
	PickupRadius         float64
	ScaleLerpRate        float64

	RaycastLayers terrain.LayerMask
	Seed          int64
}

// DefaultPickupConfig mirrors prefabs/tuning.yaml.
func DefaultPickupConfig() PickupConfig {
	return PickupConfig{
		Population:           200,
		StartScale:           0.1,
		XMin:                 -200,
		XMax:                 200,
		ZMin:                 -200,
		ZMax:                 200,
		SpawnAltitude:        120,
		SampleRadius:         1,
		MaxSlopeDegrees:      30,
		MaxPlacementAttempts: 64,
		PickupRadius:         0.05,
		ScaleLerpRate:        0.5,
		RaycastLayers:        terrain.LayerAll,
		Seed:                 1,
	}
}

// TargetScale is the body scale the player grows towards at balance.
func (c PickupConfig) TargetScale(balance int) float64 {
	return c.StartScale + float64(balance)*c.StartScale
}

// CameraConfig drives the advisory follow values handed to a camera rig.
type CameraConfig struct {
	BaseDistance     float64
	DistancePerScale float64
	BaseHeight       float64
	HeightPerScale   float64
	Smoothness       float64
}

func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		BaseDistance:     6,
		DistancePerScale: 10,
		BaseHeight:       3,
		HeightPerScale:   5,
		Smoothness:       2,
	}
}
