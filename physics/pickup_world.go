package physics

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypePickup cp.CollisionType = iota + 1
	collisionTypePlayer
)

type pickupShape struct {
	index   int
	body    *cp.Body
	shape   *cp.Shape
	y       float64
	radius  float64
	enabled bool
}

// PickupWorld owns the Chipmunk space used to detect the player touching
// pickups. Chipmunk is 2D, so shapes live on the XZ plane and the vertical
// overlap is checked separately.
type PickupWorld struct {
	space   *cp.Space
	pickups map[int]*pickupShape
	byShape map[*cp.Shape]int

	queryBody *cp.Body
	Debug     bool
}

// NewPickupWorld creates an empty pickup space.
func NewPickupWorld() *PickupWorld {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	return &PickupWorld{
		space:     space,
		pickups:   make(map[int]*pickupShape),
		byShape:   make(map[*cp.Shape]int),
		queryBody: cp.NewKinematicBody(),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PickupWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Add registers a pickup sensor at pos. Re-adding an index moves it.
func (pw *PickupWorld) Add(index int, pos mgl64.Vec3, radius float64) {
	if pw == nil || pw.space == nil {
		return
	}
	if _, ok := pw.pickups[index]; ok {
		pw.Move(index, pos)
		return
	}

	body := cp.NewStaticBody()
	body.SetPosition(planar(pos))
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypePickup)
	shape.UserData = index

	pw.space.AddShape(shape)
	pw.pickups[index] = &pickupShape{
		index:   index,
		body:    body,
		shape:   shape,
		y:       pos.Y(),
		radius:  radius,
		enabled: true,
	}
	pw.byShape[shape] = index
	if pw.Debug {
		log.Printf("PickupWorld: added pickup %d at (%.2f, %.2f, %.2f)", index, pos.X(), pos.Y(), pos.Z())
	}
}

// Move relocates a pickup. Static shapes must leave the index to move.
func (pw *PickupWorld) Move(index int, pos mgl64.Vec3) {
	if pw == nil {
		return
	}
	p, ok := pw.pickups[index]
	if !ok {
		return
	}
	if p.enabled {
		pw.space.RemoveShape(p.shape)
	}
	p.body.SetPosition(planar(pos))
	p.y = pos.Y()
	if p.enabled {
		pw.space.AddShape(p.shape)
	}
}

// SetEnabled adds or removes a pickup's shape from the space. Collected
// pickups are disabled until they are dropped again.
func (pw *PickupWorld) SetEnabled(index int, enabled bool) {
	if pw == nil {
		return
	}
	p, ok := pw.pickups[index]
	if !ok || p.enabled == enabled {
		return
	}
	if enabled {
		pw.space.AddShape(p.shape)
	} else {
		pw.space.RemoveShape(p.shape)
	}
	p.enabled = enabled
}

// Enabled reports whether a pickup currently collides.
func (pw *PickupWorld) Enabled(index int) bool {
	if pw == nil {
		return false
	}
	p, ok := pw.pickups[index]
	return ok && p.enabled
}

// Overlapping calls fn with the index of every enabled pickup touching a
// sphere at pos. Pickups are treated as spheres of their registered radius.
func (pw *PickupWorld) Overlapping(pos mgl64.Vec3, radius float64, fn func(index int)) {
	if pw == nil || pw.space == nil || fn == nil || radius <= 0 {
		return
	}

	pw.queryBody.SetPosition(planar(pos))
	sensor := cp.NewCircle(pw.queryBody, radius, cp.Vector{})
	sensor.SetSensor(true)
	sensor.SetCollisionType(collisionTypePlayer)

	var hits []int
	pw.space.ShapeQuery(sensor, func(shape *cp.Shape, _ *cp.ContactPointSet) {
		index, ok := pw.byShape[shape]
		if !ok {
			return
		}
		p := pw.pickups[index]
		if p == nil || !p.enabled {
			return
		}
		if math.Abs(p.y-pos.Y()) > radius+p.radius {
			return
		}
		hits = append(hits, index)
	})

	// Callbacks run outside the space lock so fn may move or disable shapes.
	for _, index := range hits {
		fn(index)
	}
}

// Len is the number of registered pickups.
func (pw *PickupWorld) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.pickups)
}

func planar(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}
