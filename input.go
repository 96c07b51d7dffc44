package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/system"
)

// sampleInput reads the cursor as the two steering axes. Space or any mouse
// button triggers a drop.
func sampleInput(width, height int) component.Input {
	x, y := ebiten.CursorPosition()
	in := system.PointerInput(float64(x), float64(y), float64(width), float64(height))
	in.Drop = inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle)
	return in
}
