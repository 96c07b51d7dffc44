package system

import (
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
)

// PointerAxis maps pos in [0, extent] to [-1, 1]. Positions outside the
// viewport, and empty viewports, give 0.
func PointerAxis(pos, extent float64) float64 {
	if extent <= 0 || pos < 0 || pos > extent {
		return 0
	}
	return common.Remap(pos, 0, extent, -1, 1)
}

// PointerInput builds the two steering axes from a cursor position in a
// width x height viewport. Screen y grows downwards, so the forward axis is
// flipped: the top edge is full forward.
func PointerInput(x, y, width, height float64) component.Input {
	return component.Input{
		Horizontal: PointerAxis(x, width),
		Forward:    PointerAxis(height-y, height),
	}
}
