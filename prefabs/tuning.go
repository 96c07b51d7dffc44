package prefabs

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/system"
	"github.com/milk9111/watercycle/terrain"
	"gopkg.in/yaml.v3"
)

// TuningFile is the embedded default tuning.
const TuningFile = "tuning.yaml"

// ErrInvalidTuning wraps every Validate failure.
var ErrInvalidTuning = errors.New("invalid tuning")

type Tuning struct {
	Player  PlayerTuning  `yaml:"player"`
	Water   WaterTuning   `yaml:"water"`
	Terrain TerrainTuning `yaml:"terrain"`
	Camera  CameraTuning  `yaml:"camera"`
	Sim     SimTuning     `yaml:"sim"`
}

type PlayerTuning struct {
	SlopeVelocity   float64 `yaml:"slope_velocity"`
	GravityVelocity float64 `yaml:"gravity_velocity"`
	InputVelocity   float64 `yaml:"input_velocity"`
	ForwardVelocity float64 `yaml:"forward_velocity"`

	HorizontalCurve CurveSpec `yaml:"horizontal_curve"`
	ForwardCurve    CurveSpec `yaml:"forward_curve"`

	FloatTime       float64 `yaml:"float_time"`
	EvaporationTime float64 `yaml:"evaporation_time"`
	CloudTime       float64 `yaml:"cloud_time"`
	RainRate        float64 `yaml:"rain_rate"`
	RainDamping     float64 `yaml:"rain_damping"`

	CloudHeight         float64 `yaml:"cloud_height"`
	WindVelocity        float64 `yaml:"wind_velocity"`
	WindFalloffDistance float64 `yaml:"wind_falloff_distance"`
	WindFactorMin       float64 `yaml:"wind_factor_min"`
	WindFactorMax       float64 `yaml:"wind_factor_max"`

	Layers []string `yaml:"layers"`
	Spawn  Vec3Spec `yaml:"spawn"`
}

type WaterTuning struct {
	Population           int        `yaml:"population"`
	StartScale           float64    `yaml:"start_scale"`
	Bounds               BoundsSpec `yaml:"bounds"`
	SpawnAltitude        float64    `yaml:"spawn_altitude"`
	SampleRadius         float64    `yaml:"sample_radius"`
	MaxSlopeDegrees      float64    `yaml:"max_slope_degrees"`
	MaxPlacementAttempts int        `yaml:"max_placement_attempts"`
	PickupRadius         float64    `yaml:"pickup_radius"`
	ScaleLerpRate        float64    `yaml:"scale_lerp_rate"`
	Layers               []string   `yaml:"layers"`
	Seed                 int64      `yaml:"seed"`
}

type BoundsSpec struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	ZMin float64 `yaml:"z_min"`
	ZMax float64 `yaml:"z_max"`
}

type TerrainTuning struct {
	Extent           float64    `yaml:"extent"`
	BaseHeight       float64    `yaml:"base_height"`
	PeakHeight       float64    `yaml:"peak_height"`
	PeakRadius       float64    `yaml:"peak_radius"`
	RippleAmplitude  float64    `yaml:"ripple_amplitude"`
	RippleWavelength float64    `yaml:"ripple_wavelength"`
	SeaLevel         float64    `yaml:"sea_level"`
	Rocks            []RockSpec `yaml:"rocks"`
}

type RockSpec struct {
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Top    float64 `yaml:"top"`
}

type CameraTuning struct {
	BaseDistance     float64 `yaml:"base_distance"`
	DistancePerScale float64 `yaml:"distance_per_scale"`
	BaseHeight       float64 `yaml:"base_height"`
	HeightPerScale   float64 `yaml:"height_per_scale"`
	Smoothness       float64 `yaml:"smoothness"`
}

type SimTuning struct {
	TPS int `yaml:"tps"`
}

// Vec3Spec is written as a three element sequence: [x, y, z].
type Vec3Spec struct {
	mgl64.Vec3
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("vector must be a sequence")
	}
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("vector must have 3 elements, got %d", len(xs))
	}
	v.Vec3 = mgl64.Vec3{xs[0], xs[1], xs[2]}
	return nil
}

func (v Vec3Spec) MarshalYAML() (any, error) {
	return []float64{v.X(), v.Y(), v.Z()}, nil
}

// LoadTuning reads name through Load (disk first, then the embedded copy)
// and validates it.
func LoadTuning(name string) (*Tuning, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	return ParseTuning(name, data)
}

// LoadTuningFile reads an explicit path, bypassing the prefabs directory.
func LoadTuningFile(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return ParseTuning(path, data)
}

// LoadTuningFrom loads path if it is set and the default tuning otherwise.
func LoadTuningFrom(path string) (*Tuning, error) {
	if path == "" {
		return LoadTuning(TuningFile)
	}
	return LoadTuningFile(path)
}

// ParseTuning decodes data over the defaults, so a file only needs the keys
// it changes.
func ParseTuning(name string, data []byte) (*Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return t, nil
}

// DefaultTuning matches the component defaults and the embedded tuning.yaml.
func DefaultTuning() *Tuning {
	p := component.DefaultPlayerConfig()
	w := component.DefaultPickupConfig()
	c := component.DefaultCameraConfig()
	return &Tuning{
		Player: PlayerTuning{
			SlopeVelocity:       p.SlopeVelocity,
			GravityVelocity:     p.GravityVelocity,
			InputVelocity:       p.InputVelocity,
			ForwardVelocity:     p.ForwardVelocity,
			HorizontalCurve:     CurveSpec{Kind: CurveLinear, Gain: 1},
			ForwardCurve:        CurveSpec{Kind: CurveLinear, Gain: 1},
			FloatTime:           p.FloatTime,
			EvaporationTime:     p.EvaporationTime,
			CloudTime:           p.CloudTime,
			RainRate:            p.RainRate,
			RainDamping:         p.RainDamping,
			CloudHeight:         p.CloudHeight,
			WindVelocity:        p.WindVelocity,
			WindFalloffDistance: p.WindFalloffDistance,
			WindFactorMin:       p.WindFactorMin,
			WindFactorMax:       p.WindFactorMax,
			Layers:              []string{"terrain", "ocean", "other"},
			Spawn:               Vec3Spec{p.SpawnPosition},
		},
		Water: WaterTuning{
			Population:           w.Population,
			StartScale:           w.StartScale,
			Bounds:               BoundsSpec{XMin: w.XMin, XMax: w.XMax, ZMin: w.ZMin, ZMax: w.ZMax},
			SpawnAltitude:        w.SpawnAltitude,
			SampleRadius:         w.SampleRadius,
			MaxSlopeDegrees:      w.MaxSlopeDegrees,
			MaxPlacementAttempts: w.MaxPlacementAttempts,
			PickupRadius:         w.PickupRadius,
			ScaleLerpRate:        w.ScaleLerpRate,
			Layers:               []string{"terrain", "ocean", "other"},
			Seed:                 w.Seed,
		},
		Terrain: TerrainTuning{
			Extent:           250,
			BaseHeight:       -10,
			PeakHeight:       100,
			PeakRadius:       80,
			RippleAmplitude:  2,
			RippleWavelength: 40,
			SeaLevel:         0,
		},
		Camera: CameraTuning{
			BaseDistance:     c.BaseDistance,
			DistancePerScale: c.DistancePerScale,
			BaseHeight:       c.BaseHeight,
			HeightPerScale:   c.HeightPerScale,
			Smoothness:       c.Smoothness,
		},
		Sim: SimTuning{TPS: 60},
	}
}

// Validate reports every impossible value at once.
func (t *Tuning) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tuning", ErrInvalidTuning)
	}
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
		}
	}

	p := t.Player
	check(p.FloatTime >= 0, "player.float_time %v is negative", p.FloatTime)
	check(p.EvaporationTime >= 0, "player.evaporation_time %v is negative", p.EvaporationTime)
	check(p.CloudTime > 0, "player.cloud_time %v must be positive", p.CloudTime)
	check(p.RainRate >= 0, "player.rain_rate %v is negative", p.RainRate)
	check(p.RainDamping >= 0 && p.RainDamping <= 1, "player.rain_damping %v outside [0, 1]", p.RainDamping)
	check(p.WindFalloffDistance > 0, "player.wind_falloff_distance %v must be positive", p.WindFalloffDistance)
	check(p.WindFactorMin <= p.WindFactorMax, "player.wind_factor_min %v above wind_factor_max %v", p.WindFactorMin, p.WindFactorMax)
	if _, err := parseLayers(p.Layers); err != nil {
		errs = append(errs, fmt.Errorf("%w: player.layers: %v", ErrInvalidTuning, err))
	}
	if err := p.HorizontalCurve.validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: player.horizontal_curve: %v", ErrInvalidTuning, err))
	}
	if err := p.ForwardCurve.validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: player.forward_curve: %v", ErrInvalidTuning, err))
	}

	w := t.Water
	check(w.Population >= 0, "water.population %d is negative", w.Population)
	check(w.StartScale > 0, "water.start_scale %v must be positive", w.StartScale)
	check(w.Bounds.XMin <= w.Bounds.XMax, "water.bounds x_min %v above x_max %v", w.Bounds.XMin, w.Bounds.XMax)
	check(w.Bounds.ZMin <= w.Bounds.ZMax, "water.bounds z_min %v above z_max %v", w.Bounds.ZMin, w.Bounds.ZMax)
	check(w.SampleRadius > 0, "water.sample_radius %v must be positive", w.SampleRadius)
	check(w.MaxSlopeDegrees >= 0 && w.MaxSlopeDegrees <= 90, "water.max_slope_degrees %v outside [0, 90]", w.MaxSlopeDegrees)
	check(w.MaxPlacementAttempts >= 0, "water.max_placement_attempts %d is negative", w.MaxPlacementAttempts)
	check(w.PickupRadius >= 0, "water.pickup_radius %v is negative", w.PickupRadius)
	check(w.ScaleLerpRate >= 0, "water.scale_lerp_rate %v is negative", w.ScaleLerpRate)
	if _, err := parseLayers(w.Layers); err != nil {
		errs = append(errs, fmt.Errorf("%w: water.layers: %v", ErrInvalidTuning, err))
	}

	tr := t.Terrain
	check(tr.Extent >= 0, "terrain.extent %v is negative", tr.Extent)
	check(tr.PeakRadius > 0, "terrain.peak_radius %v must be positive", tr.PeakRadius)
	for i, r := range tr.Rocks {
		check(r.Radius > 0, "terrain.rocks[%d].radius %v must be positive", i, r.Radius)
	}

	check(t.Camera.Smoothness >= 0, "camera.smoothness %v is negative", t.Camera.Smoothness)
	check(t.Sim.TPS > 0, "sim.tps %d must be positive", t.Sim.TPS)

	return errors.Join(errs...)
}

// PlayerConfig builds the player tuning, compiling scripted curves.
func (t *Tuning) PlayerConfig() (component.PlayerConfig, error) {
	p := t.Player
	layers, err := parseLayers(p.Layers)
	if err != nil {
		return component.PlayerConfig{}, fmt.Errorf("prefabs: player layers: %w", err)
	}
	horizontal, err := p.HorizontalCurve.Build()
	if err != nil {
		return component.PlayerConfig{}, fmt.Errorf("prefabs: horizontal curve: %w", err)
	}
	forward, err := p.ForwardCurve.Build()
	if err != nil {
		return component.PlayerConfig{}, fmt.Errorf("prefabs: forward curve: %w", err)
	}
	return component.PlayerConfig{
		SlopeVelocity:       p.SlopeVelocity,
		GravityVelocity:     p.GravityVelocity,
		InputVelocity:       p.InputVelocity,
		ForwardVelocity:     p.ForwardVelocity,
		HorizontalCurve:     horizontal,
		ForwardCurve:        forward,
		FloatTime:           p.FloatTime,
		EvaporationTime:     p.EvaporationTime,
		CloudTime:           p.CloudTime,
		RainRate:            p.RainRate,
		RainDamping:         p.RainDamping,
		CloudHeight:         p.CloudHeight,
		WindVelocity:        p.WindVelocity,
		WindFalloffDistance: p.WindFalloffDistance,
		WindFactorMin:       p.WindFactorMin,
		WindFactorMax:       p.WindFactorMax,
		RaycastLayers:       layers,
		SpawnPosition:       p.Spawn.Vec3,
	}, nil
}

func (t *Tuning) PickupConfig() (component.PickupConfig, error) {
	w := t.Water
	layers, err := parseLayers(w.Layers)
	if err != nil {
		return component.PickupConfig{}, fmt.Errorf("prefabs: water layers: %w", err)
	}
	return component.PickupConfig{
		Population:           w.Population,
		StartScale:           w.StartScale,
		XMin:                 w.Bounds.XMin,
		XMax:                 w.Bounds.XMax,
		ZMin:                 w.Bounds.ZMin,
		ZMax:                 w.Bounds.ZMax,
		SpawnAltitude:        w.SpawnAltitude,
		SampleRadius:         w.SampleRadius,
		MaxSlopeDegrees:      w.MaxSlopeDegrees,
		MaxPlacementAttempts: w.MaxPlacementAttempts,
		PickupRadius:         w.PickupRadius,
		ScaleLerpRate:        w.ScaleLerpRate,
		RaycastLayers:        layers,
		Seed:                 w.Seed,
	}, nil
}

func (t *Tuning) HeightfieldConfig() terrain.HeightfieldConfig {
	tr := t.Terrain
	rocks := make([]terrain.Rock, 0, len(tr.Rocks))
	for _, r := range tr.Rocks {
		rocks = append(rocks, terrain.Rock{X: r.X, Z: r.Z, Radius: r.Radius, Top: r.Top})
	}
	return terrain.HeightfieldConfig{
		Extent:           tr.Extent,
		BaseHeight:       tr.BaseHeight,
		PeakHeight:       tr.PeakHeight,
		PeakRadius:       tr.PeakRadius,
		RippleAmplitude:  tr.RippleAmplitude,
		RippleWavelength: tr.RippleWavelength,
		SeaLevel:         tr.SeaLevel,
		Rocks:            rocks,
	}
}

func (t *Tuning) CameraConfig() component.CameraConfig {
	c := t.Camera
	return component.CameraConfig{
		BaseDistance:     c.BaseDistance,
		DistancePerScale: c.DistancePerScale,
		BaseHeight:       c.BaseHeight,
		HeightPerScale:   c.HeightPerScale,
		Smoothness:       c.Smoothness,
	}
}

// Options converts the whole file into world options.
func (t *Tuning) Options() (system.WorldOptions, error) {
	player, err := t.PlayerConfig()
	if err != nil {
		return system.WorldOptions{}, err
	}
	water, err := t.PickupConfig()
	if err != nil {
		return system.WorldOptions{}, err
	}
	return system.WorldOptions{
		Player:  player,
		Water:   water,
		Terrain: t.HeightfieldConfig(),
		Camera:  t.CameraConfig(),
		TPS:     t.Sim.TPS,
	}, nil
}

// Apply pushes the reloadable parts of t into a running world.
func (t *Tuning) Apply(w *system.World) error {
	player, err := t.PlayerConfig()
	if err != nil {
		return err
	}
	w.ApplyTuning(player, t.CameraConfig(), t.Sim.TPS)
	return nil
}

func parseLayers(names []string) (terrain.LayerMask, error) {
	if len(names) == 0 {
		return terrain.LayerAll, nil
	}
	var mask terrain.LayerMask
	for _, name := range names {
		layer, ok := terrain.ParseLayer(name)
		if !ok {
			return 0, fmt.Errorf("unknown layer %q", name)
		}
		mask |= layer
	}
	return mask, nil
}
