package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
)

const (
	normalSampleStep = 0.01
	sphereRingPoints = 8
	sphereRingFactor = 0.7
)

// Rock is a flat-topped disc tagged Other.
type Rock struct {
	X      float64
	Z      float64
	Radius float64
	Top    float64
}

// HeightfieldConfig describes the procedural island.
type HeightfieldConfig struct {
	Extent           float64
	BaseHeight       float64
	PeakHeight       float64
	PeakRadius       float64
	RippleAmplitude  float64
	RippleWavelength float64
	SeaLevel         float64
	Rocks            []Rock
}

// HeightFunc returns the ground height at (x, z).
type HeightFunc func(x, z float64) float64

// Heightfield is a single-valued ground surface with an ocean plane over
// everything below SeaLevel.
type Heightfield struct {
	height   HeightFunc
	seaLevel float64
	extent   float64
	rocks    []Rock
}

// NewHeightfield builds the island described by cfg: a gaussian peak at the
// origin over a base plane, modulated by a sine ripple.
func NewHeightfield(cfg HeightfieldConfig) *Heightfield {
	sigma := cfg.PeakRadius
	if sigma <= 0 {
		sigma = 1
	}
	wave := cfg.RippleWavelength
	fn := func(x, z float64) float64 {
		h := cfg.BaseHeight + cfg.PeakHeight*math.Exp(-(x*x+z*z)/(2*sigma*sigma))
		if cfg.RippleAmplitude != 0 && wave > 0 {
			k := 2 * math.Pi / wave
			h += cfg.RippleAmplitude * math.Sin(k*x) * math.Sin(k*z)
		}
		return h
	}
	hf := NewFuncHeightfield(fn, cfg.SeaLevel, cfg.Extent)
	hf.rocks = append([]Rock(nil), cfg.Rocks...)
	return hf
}

// NewFuncHeightfield wraps an arbitrary height function. A non-positive
// extent means unbounded.
func NewFuncHeightfield(fn HeightFunc, seaLevel, extent float64) *Heightfield {
	if fn == nil {
		fn = func(float64, float64) float64 { return 0 }
	}
	return &Heightfield{height: fn, seaLevel: seaLevel, extent: extent}
}

// WithRocks returns hf with additional Other-tagged rocks.
func (hf *Heightfield) WithRocks(rocks ...Rock) *Heightfield {
	hf.rocks = append(hf.rocks, rocks...)
	return hf
}

func (hf *Heightfield) SeaLevel() float64 { return hf.seaLevel }

func (hf *Heightfield) Extent() float64 { return hf.extent }

// Height samples the ground, ignoring ocean and rocks.
func (hf *Heightfield) Height(x, z float64) float64 {
	return hf.height(x, z)
}

// Normal is the ground normal from central differences.
func (hf *Heightfield) Normal(x, z float64) mgl64.Vec3 {
	e := normalSampleStep
	dx := (hf.height(x+e, z) - hf.height(x-e, z)) / (2 * e)
	dz := (hf.height(x, z+e) - hf.height(x, z-e)) / (2 * e)
	return common.Normalize(mgl64.Vec3{-dx, 1, -dz})
}

func (hf *Heightfield) inBounds(x, z float64) bool {
	if hf.extent <= 0 {
		return true
	}
	return math.Abs(x) <= hf.extent && math.Abs(z) <= hf.extent
}

// RaycastDown returns the highest surface allowed by mask at or below the
// origin. An origin between sunken ground and the sea surface hits the
// ocean at distance 0.
func (hf *Heightfield) RaycastDown(origin mgl64.Vec3, mask LayerMask) (Hit, bool) {
	x, y, z := origin.Elem()
	if !hf.inBounds(x, z) {
		return Hit{}, false
	}

	best := Hit{Tag: TagNone}
	found := false
	consider := func(surface float64, tag Tag, normal mgl64.Vec3) {
		if !mask.Has(tag) || surface > y {
			return
		}
		if found && surface <= best.Point.Y() {
			return
		}
		best = Hit{
			Point:    mgl64.Vec3{x, surface, z},
			Normal:   normal,
			Distance: y - surface,
			Tag:      tag,
		}
		found = true
	}

	ground := hf.height(x, z)
	consider(ground, TagTerrain, hf.Normal(x, z))
	if hf.seaLevel > ground {
		// The sea is a volume: an origin already under the surface is in it.
		consider(math.Min(hf.seaLevel, y), TagOcean, common.Up)
	}
	for _, r := range hf.rocks {
		dx, dz := x-r.X, z-r.Z
		if dx*dx+dz*dz <= r.Radius*r.Radius {
			consider(r.Top, TagOther, common.Up)
		}
	}
	return best, found
}

// SphereCastDown sweeps a sphere of radius straight down from origin. The
// sweep is approximated by raycasts at the centre and on a ring inside the
// sphere; the first sample the sphere would touch wins. A sphere already
// resting on or inside a surface reports distance 0.
func (hf *Heightfield) SphereCastDown(origin mgl64.Vec3, radius, maxDistance float64, mask LayerMask) (Hit, bool) {
	if radius <= 0 {
		hit, ok := hf.RaycastDown(origin, mask)
		if !ok || hit.Distance > maxDistance {
			return Hit{}, false
		}
		return hit, true
	}

	// Rays start a radius above the centre so surfaces the sphere already
	// overlaps are still found.
	lifted := origin.Add(common.Up.Mul(radius))
	ring := radius * sphereRingFactor
	offsets := make([]mgl64.Vec3, 0, sphereRingPoints+1)
	offsets = append(offsets, mgl64.Vec3{})
	for i := 0; i < sphereRingPoints; i++ {
		a := 2 * math.Pi * float64(i) / sphereRingPoints
		offsets = append(offsets, mgl64.Vec3{math.Cos(a) * ring, 0, math.Sin(a) * ring})
	}

	var best Hit
	bestTravel := math.Inf(1)
	for _, off := range offsets {
		hit, ok := hf.RaycastDown(lifted.Add(off), mask)
		if !ok {
			continue
		}
		d := off.Len()
		reach := math.Sqrt(math.Max(radius*radius-d*d, 0))
		travel := (origin.Y() - hit.Point.Y()) - reach
		if travel < bestTravel {
			bestTravel = travel
			best = hit
		}
	}
	if math.IsInf(bestTravel, 1) || bestTravel > maxDistance {
		return Hit{}, false
	}
	best.Distance = math.Max(bestTravel, 0)
	return best, true
}
