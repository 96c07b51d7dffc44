package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/watercycle/prefabs"
)

func main() {
	configPath := flag.String("config", "", "tuning file (defaults to prefabs/tuning.yaml, then the embedded copy)")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	watch := flag.Bool("watch", false, "reload tuning and curve scripts when they change on disk")
	seed := flag.Int64("seed", 0, "override the pickup placement seed")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	tuning, err := prefabs.LoadTuningFrom(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		tuning.Water.Seed = *seed
	}

	game, err := NewGame(tuning, *configPath, *debug)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		if err := game.Watch(); err != nil {
			log.Printf("watch: %v", err)
		}
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("watercycle")
	ebiten.SetTPS(tuning.Sim.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
