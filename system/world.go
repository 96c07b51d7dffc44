package system

import (
	"fmt"
	"log"

	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/physics"
	"github.com/milk9111/watercycle/terrain"
)

// WorldOptions is everything needed to build a running simulation.
type WorldOptions struct {
	Player  component.PlayerConfig
	Water   component.PickupConfig
	Terrain terrain.HeightfieldConfig
	Camera  component.CameraConfig
	TPS     int

	// Query overrides the heightfield built from Terrain.
	Query terrain.Query
	// Sink receives the player's visual notifications. Nil is fine.
	Sink  component.VisualSink
	Debug bool
}

// World owns the simulation and drives the variable and fixed phases.
type World struct {
	Terrain   terrain.Query
	Body      *physics.Body
	Pickups   *physics.PickupWorld
	Water     *WaterManager
	Player    *Player
	Collector *PickupCollector
	Camera    *CameraRig
	Clock     *FixedStep

	ticks     int
	collected int
}

// NewWorld wires the collaborators together and enters the spawn state.
func NewWorld(opts WorldOptions) (*World, error) {
	if opts.Water.StartScale <= 0 {
		return nil, fmt.Errorf("world: start scale %v must be positive", opts.Water.StartScale)
	}
	ground := opts.Query
	if ground == nil {
		ground = terrain.NewHeightfield(opts.Terrain)
	}

	body := physics.NewBody(opts.Player.SpawnPosition, opts.Water.StartScale)
	body.ContactMask = terrain.LayerTerrain

	pickups := physics.NewPickupWorld()
	pickups.Debug = opts.Debug

	water := NewWaterManager(opts.Water, ground, body, pickups)
	water.Debug = opts.Debug

	player := NewPlayer(opts.Player, body, ground, water, opts.Sink)
	player.Debug = opts.Debug
	water.SetExiter(player)

	w := &World{
		Terrain:   ground,
		Body:      body,
		Pickups:   pickups,
		Water:     water,
		Player:    player,
		Collector: NewPickupCollector(pickups, water),
		Camera:    NewCameraRig(opts.Camera, body.Scale, body.Forward),
		Clock:     NewFixedStep(opts.TPS),
	}
	player.Init()
	if opts.Debug {
		log.Printf("world: spawned at (%.1f, %.1f, %.1f), pool %d, %d tps",
			body.Position.X(), body.Position.Y(), body.Position.Z(), water.Population(), opts.TPS)
	}
	return w, nil
}

// Update runs one frame: the variable phase once, then every fixed tick the
// clock says is due. It returns the number of fixed ticks run.
func (w *World) Update(frameDt float64, input component.Input) int {
	if w == nil {
		return 0
	}
	if rig := w.Camera; rig != nil {
		input.CameraForward = rig.Forward
	}
	w.Player.Update(frameDt, input)
	w.Water.Update(frameDt)
	w.Camera.Update(frameDt, w.Body.Scale, w.Player.Forward())

	steps := w.Clock.Advance(frameDt)
	for i := 0; i < steps; i++ {
		w.FixedUpdate(w.Clock.Step())
	}
	return steps
}

// FixedUpdate runs one physics tick.
func (w *World) FixedUpdate(dt float64) {
	if w == nil {
		return
	}
	w.Player.FixedUpdate(dt)
	w.collected += w.Collector.Update(w.Body)
	w.Water.FillPool(dt)
	w.ticks++
}

// ApplyTuning swaps the player and camera tuning in place. The pickup pool,
// terrain and current state are left alone.
func (w *World) ApplyTuning(player component.PlayerConfig, camera component.CameraConfig, tps int) {
	if w == nil {
		return
	}
	w.Player.SetConfig(player)
	w.Camera.SetConfig(camera)
	w.Clock.SetTPS(tps)
}

// Ticks is the number of fixed ticks run so far.
func (w *World) Ticks() int {
	return w.ticks
}

// Collected is the total number of pickups collected.
func (w *World) Collected() int {
	return w.collected
}
