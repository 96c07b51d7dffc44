package system

import (
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/physics"
	"github.com/milk9111/watercycle/terrain"
)

const (
	defaultPlacementAttempts = 64
	curvatureTolerance       = 1e-6
)

// CloudExiter is told when the last held water has been dropped.
type CloudExiter interface {
	ExitCloud()
}

// WaterManager owns the pickup pool and the water balance. Pickups are
// placed once, then only ever collected and dropped again.
//
// Collect and Drop may be called from collision callbacks between ticks, so
// every change to the queue and balance happens under mu.
type WaterManager struct {
	mu sync.Mutex

	cfg     component.PickupConfig
	terrain terrain.Query
	body    *physics.Body
	world   *physics.PickupWorld
	exiter  CloudExiter
	rng     *common.RNG

	pickups []*component.Pickup
	placed  int
	queue   []int
	balance int
	target  float64

	failedPlacements int
	Debug            bool
}

// NewWaterManager creates an empty pool. body and world may be nil; the
// body, when present, is snapped to the start scale.
func NewWaterManager(cfg component.PickupConfig, ground terrain.Query, body *physics.Body, world *physics.PickupWorld) *WaterManager {
	if cfg.Population < 0 {
		cfg.Population = 0
	}
	m := &WaterManager{
		cfg:     cfg,
		terrain: ground,
		body:    body,
		world:   world,
		rng:     common.NewRNG(cfg.Seed),
		pickups: make([]*component.Pickup, cfg.Population),
		queue:   make([]int, 0, cfg.Population),
		target:  cfg.TargetScale(0),
	}
	if body != nil {
		body.Scale = m.target
	}
	return m
}

// SetExiter registers who leaves the cloud when the water runs out.
func (m *WaterManager) SetExiter(e CloudExiter) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.exiter = e
	m.mu.Unlock()
}

// Update eases the body scale towards the size implied by the balance.
func (m *WaterManager) Update(dt float64) {
	if m == nil || m.body == nil {
		return
	}
	m.mu.Lock()
	target := m.target
	m.mu.Unlock()
	if m.body.Scale == target {
		return
	}
	m.body.Scale = common.Lerp(m.body.Scale, target, common.Clamp01(dt*m.cfg.ScaleLerpRate))
}

// FillPool places at most one new pickup per call until the pool is full.
// A failed placement search skips this tick. It reports whether a pickup
// was placed.
func (m *WaterManager) FillPool(dt float64) bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.placed >= len(m.pickups) {
		return false
	}
	pos, ok := m.dropPoint()
	if !ok {
		m.failedPlacements++
		if m.Debug {
			log.Printf("water: no spawn point after %d attempts (pool %d/%d)", m.attempts(), m.placed, len(m.pickups))
		}
		return false
	}

	index := m.placed
	m.pickups[index] = component.NewPickup(index, pos)
	m.world.Add(index, pos, m.pickupRadius())
	m.placed++
	return true
}

// DropPoint searches for a spawn point on concave, gently sloped terrain.
func (m *WaterManager) DropPoint() (mgl64.Vec3, bool) {
	if m == nil {
		return mgl64.Vec3{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropPoint()
}

func (m *WaterManager) dropPoint() (mgl64.Vec3, bool) {
	attempts := m.attempts()
	for i := 0; i < attempts; i++ {
		x := m.rng.Range(m.cfg.XMin, m.cfg.XMax)
		z := m.rng.Range(m.cfg.ZMin, m.cfg.ZMax)
		if pos, ok := m.ValidateSpawnPoint(x, z); ok {
			return pos, true
		}
	}
	return mgl64.Vec3{}, false
}

func (m *WaterManager) attempts() int {
	if m.cfg.MaxPlacementAttempts <= 0 {
		return defaultPlacementAttempts
	}
	return m.cfg.MaxPlacementAttempts
}

// ValidateSpawnPoint casts down at (x, z) and at four neighbours along ±x
// and ±z. The point is accepted only when every cast hits terrain, the
// centre is not steeper than MaxSlopeDegrees, and the circles through each
// row of three hits curve upwards (centre at or above the middle hit).
func (m *WaterManager) ValidateSpawnPoint(x, z float64) (mgl64.Vec3, bool) {
	if m == nil || m.terrain == nil {
		return mgl64.Vec3{}, false
	}
	r := m.cfg.SampleRadius

	center, ok := m.terrainHit(x, z)
	if !ok {
		return mgl64.Vec3{}, false
	}
	if common.AngleDegrees(center.Normal, common.Up) > m.cfg.MaxSlopeDegrees {
		return mgl64.Vec3{}, false
	}

	west, ok := m.terrainHit(x-r, z)
	if !ok {
		return mgl64.Vec3{}, false
	}
	east, ok := m.terrainHit(x+r, z)
	if !ok {
		return mgl64.Vec3{}, false
	}
	south, ok := m.terrainHit(x, z-r)
	if !ok {
		return mgl64.Vec3{}, false
	}
	north, ok := m.terrainHit(x, z+r)
	if !ok {
		return mgl64.Vec3{}, false
	}

	floor := center.Point.Y() - curvatureTolerance
	cx, ok := common.CircleCenter(center.Point, west.Point, east.Point)
	if !ok || cx.Center.Y() < floor {
		return mgl64.Vec3{}, false
	}
	cz, ok := common.CircleCenter(center.Point, south.Point, north.Point)
	if !ok || cz.Center.Y() < floor {
		return mgl64.Vec3{}, false
	}
	return center.Point, true
}

func (m *WaterManager) terrainHit(x, z float64) (terrain.Hit, bool) {
	hit, ok := m.terrain.RaycastDown(mgl64.Vec3{x, m.cfg.SpawnAltitude, z}, m.cfg.RaycastLayers)
	if !ok || hit.Tag != terrain.TagTerrain {
		return terrain.Hit{}, false
	}
	return hit, true
}

// Collect takes an available pickup into the recycle queue and grows the
// body. Already collected or foreign pickups are ignored.
func (m *WaterManager) Collect(p *component.Pickup) bool {
	if m == nil || p == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	index := p.Index()
	if index < 0 || index >= len(m.pickups) || m.pickups[index] != p {
		return false
	}
	if !p.Available() {
		return false
	}

	p.PickUp()
	m.queue = append(m.queue, index)
	m.balance++
	m.target = m.cfg.TargetScale(m.balance)
	m.world.SetEnabled(index, false)
	return true
}

// CollectIndex collects the pickup registered at index.
func (m *WaterManager) CollectIndex(index int) bool {
	return m.Collect(m.Pickup(index))
}

// Drop returns the oldest held pickup to the terrain below position, cast
// from the spawn altitude. When the last one leaves, the exiter is told
// after the lock is released.
func (m *WaterManager) Drop(position mgl64.Vec3) component.DropResult {
	if m == nil {
		return component.DropEmpty
	}
	m.mu.Lock()

	if len(m.queue) == 0 {
		m.mu.Unlock()
		return component.DropEmpty
	}
	if m.terrain == nil {
		m.mu.Unlock()
		return component.DropNoTerrain
	}
	hit, ok := m.terrainHit(position.X(), position.Z())
	if !ok {
		m.mu.Unlock()
		return component.DropNoTerrain
	}

	index := m.queue[0]
	m.queue = append(m.queue[:0], m.queue[1:]...)
	p := m.pickups[index]
	p.Position = hit.Point
	p.Reset()
	m.world.Move(index, hit.Point)
	m.world.SetEnabled(index, true)
	m.balance--
	m.target = m.cfg.TargetScale(m.balance)

	depleted := len(m.queue) == 0
	exiter := m.exiter
	m.mu.Unlock()

	if !depleted {
		return component.DropPlaced
	}
	if exiter != nil {
		exiter.ExitCloud()
	}
	return component.DropDepleted
}

func (m *WaterManager) pickupRadius() float64 {
	if m.cfg.PickupRadius > 0 {
		return m.cfg.PickupRadius
	}
	return m.cfg.StartScale / 2
}

// Balance is the number of pickups currently held.
func (m *WaterManager) Balance() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

// Queue returns the held pickup indices, oldest first.
func (m *WaterManager) Queue() []int {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.queue...)
}

// Placed is how many pool slots have been filled.
func (m *WaterManager) Placed() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placed
}

func (m *WaterManager) Population() int {
	if m == nil {
		return 0
	}
	return len(m.pickups)
}

// FailedPlacements counts ticks whose spawn search came up empty.
func (m *WaterManager) FailedPlacements() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failedPlacements
}

// Pickup returns the pickup at index, or nil if the slot is not placed yet.
func (m *WaterManager) Pickup(index int) *component.Pickup {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.pickups) {
		return nil
	}
	return m.pickups[index]
}

// Pickups returns the placed pickups.
func (m *WaterManager) Pickups() []*component.Pickup {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*component.Pickup(nil), m.pickups[:m.placed]...)
}

// TargetScale is the scale the body is easing towards.
func (m *WaterManager) TargetScale() float64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}
