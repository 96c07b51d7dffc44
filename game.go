package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/watercycle/prefabs"
	"github.com/milk9111/watercycle/system"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int

	world   *system.World
	fade    *system.FadeVisualSink
	events  *system.LogVisualSink
	view    *topDownView
	watcher *prefabs.Watcher

	tuning     *prefabs.Tuning
	configPath string
	debug      bool
}

func NewGame(tuning *prefabs.Tuning, configPath string, debug bool) (*Game, error) {
	opts, err := tuning.Options()
	if err != nil {
		return nil, err
	}
	fade := system.NewFadeVisualSink(tuning.Player.CloudHeight, tuning.Player.CloudTime)
	events := system.NewLogVisualSink(!debug)
	opts.Sink = system.MultiVisualSink{fade, events}
	opts.Debug = debug

	world, err := system.NewWorld(opts)
	if err != nil {
		return nil, err
	}
	return &Game{
		world:      world,
		fade:       fade,
		events:     events,
		view:       newTopDownView(world.Terrain, tuning.Terrain.Extent),
		tuning:     tuning,
		configPath: configPath,
		debug:      debug,
	}, nil
}

// Watch starts hot reloading the tuning file and curve scripts.
func (g *Game) Watch() error {
	w, err := prefabs.WatchDefault()
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollReload()

	dt := 1 / float64(ebiten.TPS())
	g.fade.FrameDt = dt
	g.world.Update(dt, sampleInput(baseWidth, baseHeight))
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(changed string) {
	tuning, err := prefabs.LoadTuningFrom(g.configPath)
	if err != nil {
		log.Printf("reload %s: %v", changed, err)
		return
	}
	if err := tuning.Apply(g.world); err != nil {
		log.Printf("reload %s: %v", changed, err)
		return
	}
	g.tuning = tuning
	g.fade.MaxHeight = tuning.Player.CloudHeight
	g.fade.CloudTime = tuning.Player.CloudTime
	ebiten.SetTPS(tuning.Sim.TPS)
	log.Printf("reloaded tuning after change to %s", changed)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.view.Draw(screen, g.world, g.fade)

	p := g.world.Player
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.2f  state: %s  water: %d/%d  scale: %.2f  height: %.1f",
		ebiten.ActualFPS(), p.State(), g.world.Water.Balance(), g.world.Water.Placed(),
		g.world.Body.Scale, g.world.Body.Position.Y()))
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
			"transitions: %d  collected: %d  ticks: %d  cam: %.1f/%.1f",
			p.Transitions(), g.world.Collected(), g.world.Ticks(), g.world.Camera.Distance, g.world.Camera.Height), 0, 16)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
