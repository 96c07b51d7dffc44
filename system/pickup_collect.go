package system

import (
	"github.com/milk9111/watercycle/physics"
)

// PickupCollector turns body/pickup overlaps into WaterManager.Collect calls.
type PickupCollector struct {
	world *physics.PickupWorld
	water *WaterManager
}

func NewPickupCollector(world *physics.PickupWorld, water *WaterManager) *PickupCollector {
	return &PickupCollector{world: world, water: water}
}

// Update collects every enabled pickup the body touches and returns how many
// were taken this tick.
func (c *PickupCollector) Update(body *physics.Body) int {
	if c == nil || c.world == nil || c.water == nil || body == nil {
		return 0
	}
	collected := 0
	c.world.Overlapping(body.Position, body.HalfScale(), func(index int) {
		if c.water.CollectIndex(index) {
			collected++
		}
	})
	return collected
}
