package component

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/physics"
	"github.com/milk9111/watercycle/terrain"
)

// PlayerStateID tags the active phase of matter.
type PlayerStateID int

const (
	StateWater PlayerStateID = iota
	StateFloat
	StateSteam
	StateCloud
	StateRain
)

var playerStateNames = [...]string{
	StateWater: "water",
	StateFloat: "float",
	StateSteam: "steam",
	StateCloud: "cloud",
	StateRain:  "rain",
}

func (s PlayerStateID) String() string {
	if s < 0 || int(s) >= len(playerStateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return playerStateNames[s]
}

// ParsePlayerState accepts the lower-case state names.
func ParsePlayerState(name string) (PlayerStateID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range playerStateNames {
		if n == name {
			return PlayerStateID(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown player state %q", name)
}

// PlayerState defines the interface for player state machine states.
// Each state owns its own enter/exit and per-tick logic. Update runs at
// frame rate; FixedUpdate runs at the simulation step and is the only place
// forces are applied or transitions are taken.
type PlayerState interface {
	ID() PlayerStateID
	Name() string
	Enter(ctx *PlayerStateContext)
	Exit(ctx *PlayerStateContext)
	Update(ctx *PlayerStateContext)
	FixedUpdate(ctx *PlayerStateContext)
}

// WaterSource is the part of the resource economy the player drives.
type WaterSource interface {
	Balance() int
	Drop(position mgl64.Vec3) DropResult
}

// PlayerStateContext provides controlled access to input, physics and
// collaborators for a state. Water may be nil.
type PlayerStateContext struct {
	Dt         float64
	Input      *Input
	Config     *PlayerConfig
	Body       *physics.Body
	Terrain    terrain.Query
	Transition *Transition
	Water      WaterSource
	Memory     *PlayerMemory

	ChangeState func(id PlayerStateID)
}

// PlayerMemory holds per-state values that outlive a single tick.
type PlayerMemory struct {
	HorizontalVector mgl64.Vec3
	ForwardVector    mgl64.Vec3
	DownHill         mgl64.Vec3
	FloatDrift       mgl64.Vec3
	CloudDropRate    float64
	DropRequested    bool
}
