package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/prefabs"
	"github.com/milk9111/watercycle/system"
)

func main() {
	configPath := flag.String("config", "", "tuning file (defaults to prefabs/tuning.yaml, then the embedded copy)")
	ticks := flag.Int("ticks", 36000, "fixed ticks to simulate")
	seed := flag.Int64("seed", 0, "override the pickup placement seed")
	pattern := flag.String("input", "wander", "scripted input: still, wander or drop")
	report := flag.Int("report", 600, "log a status line every n ticks (0 disables)")
	debug := flag.Bool("debug", false, "enable debug logging")
	watch := flag.Bool("watch", false, "reload tuning when it changes on disk")
	flag.Parse()

	tuning, err := prefabs.LoadTuningFrom(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		tuning.Water.Seed = *seed
	}
	script, err := inputScript(*pattern)
	if err != nil {
		log.Fatal(err)
	}

	opts, err := tuning.Options()
	if err != nil {
		log.Fatal(err)
	}
	sink := system.NewLogVisualSink(false)
	opts.Sink = sink
	opts.Debug = *debug

	world, err := system.NewWorld(opts)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		if watcher, err = prefabs.WatchDefault(); err != nil {
			log.Printf("watch: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	dt := world.Clock.Step()
	elapsed := 0.0
	for world.Ticks() < *ticks {
		select {
		case <-interrupt:
			log.Printf("interrupted after %d ticks", world.Ticks())
			summary(world, sink)
			return
		default:
		}
		if watcher != nil {
			pollReload(watcher, world, *configPath)
			dt = world.Clock.Step()
		}

		world.Update(dt, script(elapsed, world.Player.State()))
		elapsed += dt

		if *report > 0 && world.Ticks()%*report == 0 {
			log.Printf("t=%6.1fs %-5s pos=(%7.1f, %6.1f, %7.1f) water=%d placed=%d/%d scale=%.2f",
				elapsed, world.Player.State(),
				world.Body.Position.X(), world.Body.Position.Y(), world.Body.Position.Z(),
				world.Water.Balance(), world.Water.Placed(), world.Water.Population(), world.Body.Scale)
		}
	}
	summary(world, sink)
}

type inputFunc func(t float64, state component.PlayerStateID) component.Input

func inputScript(name string) (inputFunc, error) {
	switch name {
	case "still":
		return func(float64, component.PlayerStateID) component.Input { return component.Input{} }, nil
	case "wander":
		return func(t float64, _ component.PlayerStateID) component.Input {
			return component.Input{
				Horizontal: 0.5 * math.Sin(t*0.3),
				Forward:    0.3 * math.Cos(t*0.17),
			}
		}, nil
	case "drop":
		last := -1
		return func(t float64, state component.PlayerStateID) component.Input {
			in := component.Input{Horizontal: 0.5 * math.Sin(t*0.3)}
			if state == component.StateCloud {
				if s := int(t); s != last && s%2 == 0 {
					last = s
					in.Drop = true
				}
			}
			return in
		}, nil
	}
	return nil, fmt.Errorf("unknown input script %q", name)
}

func pollReload(w *prefabs.Watcher, world *system.World, configPath string) {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			tuning, err := prefabs.LoadTuningFrom(configPath)
			if err == nil {
				err = tuning.Apply(world)
			}
			if err != nil {
				log.Printf("reload %s: %v", name, err)
				continue
			}
			log.Printf("reloaded tuning after change to %s", name)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func summary(world *system.World, sink *system.LogVisualSink) {
	log.Printf("ticks=%d transitions=%d collected=%d held=%d placed=%d/%d failed placements=%d",
		world.Ticks(), world.Player.Transitions(), world.Collected(), world.Water.Balance(),
		world.Water.Placed(), world.Water.Population(), world.Water.FailedPlacements())
	for id := component.StateWater; id <= component.StateRain; id++ {
		log.Printf("  %-5s entered %d times", id, sink.Entered[id])
	}
}
