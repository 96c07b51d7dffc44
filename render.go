package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/system"
	"github.com/milk9111/watercycle/terrain"
	"golang.org/x/image/colornames"
)

const (
	mapCells     = 120
	mapRayHeight = 1e4
	minPlayerPx  = 3
	forwardPx    = 24
	defaultWorld = 250
)

// topDownView draws the island from above: terrain baked once into an
// image, pickups and the player on top.
type topDownView struct {
	ground terrain.Query
	extent float64
	size   float64
	left   float64
	top    float64

	terrainImage *ebiten.Image
}

func newTopDownView(ground terrain.Query, extent float64) *topDownView {
	if extent <= 0 {
		extent = defaultWorld
	}
	size := float64(baseHeight)
	return &topDownView{
		ground: ground,
		extent: extent,
		size:   size,
		left:   (baseWidth - size) / 2,
		top:    0,
	}
}

func (v *topDownView) toScreen(p mgl64.Vec3) (float32, float32) {
	sx := v.left + (p.X()+v.extent)/(2*v.extent)*v.size
	sy := v.top + (v.extent-p.Z())/(2*v.extent)*v.size
	return float32(sx), float32(sy)
}

func (v *topDownView) pixelsPerUnit() float64 {
	return v.size / (2 * v.extent)
}

func (v *topDownView) bake() {
	img := ebiten.NewImage(int(v.size), int(v.size))
	img.Fill(colornames.Midnightblue)
	cell := v.size / mapCells
	for i := 0; i < mapCells; i++ {
		for j := 0; j < mapCells; j++ {
			x := -v.extent + (float64(i)+0.5)*2*v.extent/mapCells
			z := v.extent - (float64(j)+0.5)*2*v.extent/mapCells
			hit, ok := v.ground.RaycastDown(mgl64.Vec3{x, mapRayHeight, z}, terrain.LayerAll)
			if !ok {
				continue
			}
			vector.FillRect(img, float32(float64(i)*cell), float32(float64(j)*cell), float32(cell+1), float32(cell+1), surfaceColor(hit), false)
		}
	}
	v.terrainImage = img
}

func surfaceColor(hit terrain.Hit) color.Color {
	switch hit.Tag {
	case terrain.TagOcean:
		return colornames.Steelblue
	case terrain.TagOther:
		return colornames.Dimgray
	}
	h := hit.Point.Y()
	switch {
	case h < 5:
		return colornames.Khaki
	case h < 40:
		return colornames.Seagreen
	case h < 70:
		return colornames.Darkolivegreen
	}
	return colornames.Gainsboro
}

func (v *topDownView) Draw(screen *ebiten.Image, w *system.World, fade *system.FadeVisualSink) {
	screen.Fill(colornames.Black)
	if v.ground != nil {
		if v.terrainImage == nil {
			v.bake()
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(v.left, v.top)
		screen.DrawImage(v.terrainImage, op)
	}

	for _, p := range w.Water.Pickups() {
		if !p.Available() {
			continue
		}
		x, y := v.toScreen(p.Position)
		vector.FillCircle(screen, x, y, 1.5, colornames.Deepskyblue, false)
	}

	body := w.Body
	x, y := v.toScreen(body.Position)
	r := float32(math.Max(minPlayerPx, body.HalfScale()*v.pixelsPerUnit()))

	if fade.Shadow > 0 {
		shadow := color.RGBA{A: uint8(96 * fade.Shadow)}
		vector.FillCircle(screen, x+2, y+2, r, shadow, true)
	}
	vector.FillCircle(screen, x, y, r, playerColor(w.Player.State(), fade), true)
	if fade.RainRate > 0 {
		vector.StrokeCircle(screen, x, y, r+4, 1, color.NRGBA{R: 135, G: 206, B: 250, A: uint8(200 * fade.RainRate)}, true)
	}

	fx, fy := v.toScreen(body.Position.Add(w.Camera.Forward.Mul(forwardPx / v.pixelsPerUnit())))
	vector.StrokeLine(screen, x, y, fx, fy, 1, colornames.Orange, true)
}

func playerColor(state component.PlayerStateID, fade *system.FadeVisualSink) color.Color {
	switch state {
	case component.StateWater, component.StateFloat:
		a := 128 + 127*fade.WaterFade
		return color.NRGBA{R: 30, G: 144, B: 255, A: uint8(a)}
	case component.StateSteam, component.StateCloud:
		a := 96 + 159*fade.CloudFade
		return color.NRGBA{R: 245, G: 245, B: 245, A: uint8(a)}
	}
	return colornames.Lightskyblue
}
