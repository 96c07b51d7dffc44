package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/physics"
	"github.com/milk9111/watercycle/terrain"
)

const (
	// contactTolerance absorbs the rounding left by resting a body on the
	// ground; it scales with bodies larger than one unit.
	contactTolerance = 1e-6
	// timerTolerance absorbs drift in accumulated tick lengths.
	timerTolerance = 1e-6
)

// Player state singletons (avoid allocations on transitions).
var (
	playerStateWater component.PlayerState = &playerWaterState{}
	playerStateFloat component.PlayerState = &playerFloatState{}
	playerStateSteam component.PlayerState = &playerSteamState{}
	playerStateCloud component.PlayerState = &playerCloudState{}
	playerStateRain  component.PlayerState = &playerRainState{}
)

func playerStateFor(id component.PlayerStateID) component.PlayerState {
	switch id {
	case component.StateWater:
		return playerStateWater
	case component.StateFloat:
		return playerStateFloat
	case component.StateSteam:
		return playerStateSteam
	case component.StateCloud:
		return playerStateCloud
	case component.StateRain:
		return playerStateRain
	}
	return nil
}

// allowedTransitions is the water cycle. Nothing else is legal.
var allowedTransitions = map[component.PlayerStateID]component.PlayerStateID{
	component.StateRain:  component.StateWater,
	component.StateWater: component.StateFloat,
	component.StateFloat: component.StateSteam,
	component.StateSteam: component.StateCloud,
	component.StateCloud: component.StateRain,
}

type playerWaterState struct{}

type playerFloatState struct{}

type playerSteamState struct{}

type playerCloudState struct{}

type playerRainState struct{}

func (playerWaterState) ID() component.PlayerStateID { return component.StateWater }
func (playerWaterState) Name() string { return "water" }
func (playerWaterState) Enter(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil {
		return
	}
	ctx.Body.Kinematic = false
	ctx.Memory.DownHill = mgl64.Vec3{}
}
func (playerWaterState) Exit(ctx *component.PlayerStateContext) {}
func (playerWaterState) Update(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil {
		return
	}
	if !common.IsZero(ctx.Memory.DownHill) {
		ctx.Body.SetForward(ctx.Memory.DownHill)
	}
}
func (playerWaterState) FixedUpdate(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil || ctx.Config == nil {
		return
	}
	body := ctx.Body

	var downHill mgl64.Vec3
	if hit, ok := raycastDown(ctx, body.Position); ok {
		switch hit.Tag {
		case terrain.TagOcean:
			ctx.Memory.DownHill = mgl64.Vec3{}
			ctx.ChangeState(component.StateFloat)
			return
		case terrain.TagTerrain:
			if inContact(hit.Distance, body.HalfScale()) {
				downHill = common.Normalize(common.ProjectOnPlane(hit.Normal, common.Up))
			}
		}
	}
	ctx.Memory.DownHill = downHill

	if !common.IsZero(downHill) {
		body.AddForce(common.Down.Mul(ctx.Config.SlopeVelocity), physics.ForceAcceleration)
	} else {
		body.AddForce(common.Down.Mul(ctx.Config.GravityVelocity), physics.ForceAcceleration)
	}
	applyInputImpulse(ctx)
}

func (playerFloatState) ID() component.PlayerStateID { return component.StateFloat }
func (playerFloatState) Name() string { return "float" }
func (playerFloatState) Enter(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil {
		return
	}
	ctx.Memory.FloatDrift = common.Flatten(ctx.Body.Velocity).Mul(1.0 / 3.0)
	ctx.Body.Stop()
	ctx.Body.Velocity = ctx.Memory.FloatDrift
	ctx.Body.Kinematic = true
}
func (playerFloatState) Exit(ctx *component.PlayerStateContext) {}
func (playerFloatState) Update(ctx *component.PlayerStateContext) {}
func (playerFloatState) FixedUpdate(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil || ctx.Config == nil {
		return
	}
	ctx.Body.Position = ctx.Body.Position.Add(ctx.Memory.FloatDrift.Mul(ctx.Dt))
	if elapsed(ctx.Transition.Time, ctx.Config.FloatTime) {
		ctx.ChangeState(component.StateSteam)
	}
}

func (playerSteamState) ID() component.PlayerStateID { return component.StateSteam }
func (playerSteamState) Name() string { return "steam" }
func (playerSteamState) Enter(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil {
		return
	}
	ctx.Body.Stop()
	ctx.Body.Kinematic = true
}
func (playerSteamState) Exit(ctx *component.PlayerStateContext) {}
func (playerSteamState) Update(ctx *component.PlayerStateContext) {}
func (playerSteamState) FixedUpdate(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil || ctx.Config == nil {
		return
	}
	body := ctx.Body
	cfg := ctx.Config

	ctx.Transition.CapturePosition(body.Position)
	start := ctx.Transition.Position
	target := mgl64.Vec3{start.X(), cfg.CloudHeight, start.Z()}

	t := 1.0
	if cfg.EvaporationTime > 0 {
		t = ctx.Transition.Time / cfg.EvaporationTime
	}
	body.Position = common.Slerp(start, target, t)
	body.SetForward(windDirection(body.Position))

	if body.Position.Y() >= cfg.CloudHeight-body.HalfScale() {
		ctx.ChangeState(component.StateCloud)
	}
}

func (playerCloudState) ID() component.PlayerStateID { return component.StateCloud }
func (playerCloudState) Name() string { return "cloud" }
func (playerCloudState) Enter(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil || ctx.Config == nil {
		return
	}
	ctx.Body.Stop()
	ctx.Body.Kinematic = false
	ctx.Memory.DropRequested = false

	balance := 0
	if ctx.Water != nil {
		balance = ctx.Water.Balance()
	}
	ctx.Memory.CloudDropRate = 0
	if balance > 0 {
		ctx.Memory.CloudDropRate = ctx.Config.CloudTime / float64(balance)
	}
}
func (playerCloudState) Exit(ctx *component.PlayerStateContext) {
	if ctx == nil {
		return
	}
	ctx.Memory.DropRequested = false
}
func (playerCloudState) Update(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil {
		return
	}
	ctx.Body.SetForward(ctx.Body.Velocity)
}
func (playerCloudState) FixedUpdate(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil || ctx.Config == nil {
		return
	}
	body := ctx.Body
	cfg := ctx.Config
	dry := ctx.Water == nil || ctx.Water.Balance() == 0

	peak := mgl64.Vec3{0, cfg.CloudHeight, 0}
	factor := common.Remap(body.Position.Sub(peak).Len(), 0, cfg.WindFalloffDistance, cfg.WindFactorMin, cfg.WindFactorMax)
	body.AddForce(windDirection(body.Position).Mul(cfg.WindVelocity*factor), physics.ForceAcceleration)
	applyInputImpulse(ctx)
	body.Velocity = common.Flatten(body.Velocity)

	// Nothing to rain out: drift with the wind until there is land to
	// rain on.
	if dry {
		ctx.Memory.DropRequested = false
		if hit, ok := raycastDown(ctx, body.Position); ok && hit.Tag == terrain.TagTerrain {
			ctx.ChangeState(component.StateRain)
		}
		return
	}

	if ctx.Memory.DropRequested || elapsed(ctx.Transition.Time, ctx.Memory.CloudDropRate) {
		ctx.Memory.DropRequested = false
		ctx.Transition.Time = 0
		// May re-enter the player through ExitCloud; nothing runs after it.
		ctx.Water.Drop(body.Position)
	}
}

func (playerRainState) ID() component.PlayerStateID { return component.StateRain }
func (playerRainState) Name() string { return "rain" }
func (playerRainState) Enter(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil {
		return
	}
	ctx.Body.Kinematic = false
}
func (playerRainState) Exit(ctx *component.PlayerStateContext) {}
func (playerRainState) Update(ctx *component.PlayerStateContext) {}
func (playerRainState) FixedUpdate(ctx *component.PlayerStateContext) {
	if ctx == nil || ctx.Body == nil || ctx.Config == nil {
		return
	}
	body := ctx.Body
	cfg := ctx.Config

	body.Velocity = body.Velocity.Mul(cfg.RainDamping)

	hit, ok := raycastDown(ctx, body.Position)
	if !ok || hit.Tag != terrain.TagTerrain {
		return
	}
	body.Position = common.LerpVec(body.Position, hit.Point, common.Clamp01(ctx.Dt*cfg.RainRate))

	half := body.HalfScale()
	if ctx.Terrain == nil {
		return
	}
	landing, ok := ctx.Terrain.SphereCastDown(body.Position, half, half, cfg.RaycastLayers)
	if ok && landing.Tag == terrain.TagTerrain && inContact(landing.Distance, half) {
		ctx.ChangeState(component.StateWater)
	}
}

// inContact reports whether a cast that travelled distance reached a body
// of the given half scale.
func inContact(distance, half float64) bool {
	return distance <= half+contactTolerance*math.Max(1, 2*half)
}

// elapsed reports whether an accumulated timer has reached limit.
func elapsed(t, limit float64) bool {
	return t >= limit-timerTolerance
}

// windDirection points horizontally at the peak in the middle of the world.
func windDirection(position mgl64.Vec3) mgl64.Vec3 {
	return common.Normalize(common.Flatten(position.Mul(-1)))
}

func raycastDown(ctx *component.PlayerStateContext, origin mgl64.Vec3) (terrain.Hit, bool) {
	if ctx.Terrain == nil {
		return terrain.Hit{}, false
	}
	return ctx.Terrain.RaycastDown(origin, ctx.Config.RaycastLayers)
}

// applyInputImpulse pushes the body along the camera-relative input vectors
// sampled in the last variable-rate update.
func applyInputImpulse(ctx *component.PlayerStateContext) {
	body := ctx.Body
	cfg := ctx.Config
	if h := ctx.Memory.HorizontalVector; !common.IsZero(h) {
		body.AddForce(h.Mul(ctx.Dt*cfg.InputVelocity), physics.ForceVelocityChange)
	}
	if f := ctx.Memory.ForwardVector; !common.IsZero(f) {
		body.AddForce(f.Mul(ctx.Dt*cfg.ForwardVelocity), physics.ForceVelocityChange)
	}
}
