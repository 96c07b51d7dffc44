package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/physics"
	"github.com/milk9111/watercycle/terrain"
)

// Player drives the body through the water cycle. It owns the active state,
// the transition context and the body.
type Player struct {
	cfg     component.PlayerConfig
	body    *physics.Body
	terrain terrain.Query
	water   component.WaterSource
	sink    component.VisualSink

	state      component.PlayerState
	transition component.Transition
	memory     component.PlayerMemory
	input      component.Input
	ctx        component.PlayerStateContext

	transitions int
	Debug       bool
}

// NewPlayer wires a player to its collaborators. water and sink may be nil.
func NewPlayer(cfg component.PlayerConfig, body *physics.Body, ground terrain.Query, water component.WaterSource, sink component.VisualSink) *Player {
	if body == nil {
		body = physics.NewBody(cfg.SpawnPosition, 1)
	}
	p := &Player{
		cfg:     cfg,
		body:    body,
		terrain: ground,
		water:   water,
		sink:    sink,
	}
	p.ctx = component.PlayerStateContext{
		Input:       &p.input,
		Config:      &p.cfg,
		Body:        p.body,
		Terrain:     p.terrain,
		Transition:  &p.transition,
		Water:       p.water,
		Memory:      &p.memory,
		ChangeState: func(id component.PlayerStateID) { p.changeState(id) },
	}
	return p
}

// Init enters the spawn state. The player always starts as rain.
func (p *Player) Init() {
	if p == nil {
		return
	}
	p.transition.Reset()
	p.memory = component.PlayerMemory{}
	p.state = playerStateRain
	p.state.Enter(&p.ctx)
	p.notifyEnter(p.state.ID())
}

// Update runs the frame-rate phase: input sampling, orientation and the
// visual tick.
func (p *Player) Update(dt float64, input component.Input) {
	if p == nil {
		return
	}
	if p.state == nil {
		p.Init()
	}
	p.input = input
	p.ctx.Dt = dt

	if input.Drop && p.state.ID() == component.StateCloud {
		p.memory.DropRequested = true
	}
	p.memory.HorizontalVector, p.memory.ForwardVector = p.inputVectors(input)

	p.state.Update(&p.ctx)

	if p.sink != nil {
		p.sink.OnTick(p.state.ID(), p.body.Velocity, p.body.Position.Y())
	}
}

// FixedUpdate runs the physics phase: state forces and transitions, then
// integration.
func (p *Player) FixedUpdate(dt float64) {
	if p == nil {
		return
	}
	if p.state == nil {
		p.Init()
	}
	p.ctx.Dt = dt
	p.transition.Time += dt

	p.state.FixedUpdate(&p.ctx)
	p.body.Step(dt, p.terrain)
}

// ExitCloud forces the CLOUD→RAIN transition once the water runs out. It is
// ignored in any other state.
func (p *Player) ExitCloud() {
	if p == nil || p.state == nil || p.state.ID() != component.StateCloud {
		return
	}
	p.changeState(component.StateRain)
}

func (p *Player) changeState(id component.PlayerStateID) bool {
	next := playerStateFor(id)
	if next == nil || p.state == nil {
		return false
	}
	cur := p.state.ID()
	if allowed, ok := allowedTransitions[cur]; !ok || allowed != id {
		if p.Debug {
			log.Printf("player: rejected transition %s -> %s", cur, id)
		}
		return false
	}

	p.state.Exit(&p.ctx)
	p.transition.Reset()
	p.state = next
	p.transitions++
	p.state.Enter(&p.ctx)
	if p.Debug {
		log.Printf("player: %s -> %s at (%.2f, %.2f, %.2f)", cur, id, p.body.Position.X(), p.body.Position.Y(), p.body.Position.Z())
	}
	p.notifyEnter(id)
	return true
}

func (p *Player) notifyEnter(id component.PlayerStateID) {
	if p.sink != nil {
		p.sink.OnEnterState(id)
	}
}

// inputVectors turns the two pointer axes into world-space impulse
// directions relative to the camera, flattened onto the ground plane.
func (p *Player) inputVectors(input component.Input) (horizontal, forward mgl64.Vec3) {
	camForward := common.Normalize(common.Flatten(input.CameraForward))
	if common.IsZero(camForward) {
		camForward = p.body.Forward
	}
	if input.Horizontal != 0 {
		right := common.Up.Cross(camForward)
		horizontal = right.Mul(common.EvaluateCurve(p.cfg.HorizontalCurve, input.Horizontal))
	}
	if input.Forward != 0 {
		forward = camForward.Mul(common.EvaluateCurve(p.cfg.ForwardCurve, input.Forward))
	}
	return horizontal, forward
}

// SetConfig swaps the tuning in place. The current state keeps running.
func (p *Player) SetConfig(cfg component.PlayerConfig) {
	if p == nil {
		return
	}
	p.cfg = cfg
}

func (p *Player) State() component.PlayerStateID {
	if p == nil || p.state == nil {
		return component.StateRain
	}
	return p.state.ID()
}

func (p *Player) Transition() component.Transition {
	return p.transition
}

// CloudDropRate is the seconds between automatic drops in the current cloud.
func (p *Player) CloudDropRate() float64 {
	return p.memory.CloudDropRate
}

// DownHill is the last slope direction found while in WATER.
func (p *Player) DownHill() mgl64.Vec3 {
	return p.memory.DownHill
}

func (p *Player) Body() *physics.Body {
	return p.body
}

func (p *Player) Config() component.PlayerConfig {
	return p.cfg
}

// Forward is the heading handed back to the camera rig.
func (p *Player) Forward() mgl64.Vec3 {
	return p.body.Forward
}

// Transitions counts state changes since construction.
func (p *Player) Transitions() int {
	return p.transitions
}
