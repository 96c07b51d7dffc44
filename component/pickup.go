package component

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrIndexAssigned = errors.New("component: pickup index already assigned")

// Pickup is a recyclable water token. Tokens are created once and only ever
// flip between available and collected.
type Pickup struct {
	index    int
	assigned bool
	pickedUp bool

	Position mgl64.Vec3
}

// NewPickup returns an available token with its index assigned.
func NewPickup(index int, position mgl64.Vec3) *Pickup {
	p := &Pickup{Position: position}
	_ = p.SetIndex(index)
	return p
}

// SetIndex assigns the stable identity. It may only be called once.
func (p *Pickup) SetIndex(i int) error {
	if p.assigned {
		return ErrIndexAssigned
	}
	p.index = i
	p.assigned = true
	return nil
}

// Index is the stable identity, or -1 before one is assigned.
func (p *Pickup) Index() int {
	if p == nil || !p.assigned {
		return -1
	}
	return p.index
}

// Available reports whether the token can be collected.
func (p *Pickup) Available() bool {
	return p != nil && !p.pickedUp
}

func (p *Pickup) PickUp() {
	p.pickedUp = true
}

func (p *Pickup) Reset() {
	p.pickedUp = false
}

// DropResult reports what a drop attempt did.
type DropResult int

const (
	// DropEmpty means nothing was held; nothing changed.
	DropEmpty DropResult = iota
	// DropNoTerrain means the ground below was not terrain; nothing changed.
	DropNoTerrain
	// DropPlaced means one token was returned to the world.
	DropPlaced
	// DropDepleted means the last held token was returned.
	DropDepleted
)

func (r DropResult) String() string {
	switch r {
	case DropEmpty:
		return "empty"
	case DropNoTerrain:
		return "no_terrain"
	case DropPlaced:
		return "placed"
	case DropDepleted:
		return "depleted"
	}
	return "unknown"
}

// Dropped reports whether a token left the queue.
func (r DropResult) Dropped() bool {
	return r == DropPlaced || r == DropDepleted
}
