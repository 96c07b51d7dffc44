package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/component"
)

// LogVisualSink is the headless visual sink: it logs state entries and keeps
// per-state counters.
type LogVisualSink struct {
	Entered map[component.PlayerStateID]int
	Ticks   int
	Last    component.PlayerStateID
	Quiet   bool
}

func NewLogVisualSink(quiet bool) *LogVisualSink {
	return &LogVisualSink{
		Entered: make(map[component.PlayerStateID]int),
		Quiet:   quiet,
	}
}

func (s *LogVisualSink) OnEnterState(state component.PlayerStateID) {
	if s == nil {
		return
	}
	if s.Entered == nil {
		s.Entered = make(map[component.PlayerStateID]int)
	}
	s.Entered[state]++
	s.Last = state
	if !s.Quiet {
		log.Printf("visual: enter %s", state)
	}
}

func (s *LogVisualSink) OnTick(state component.PlayerStateID, velocity mgl64.Vec3, height float64) {
	if s == nil {
		return
	}
	s.Ticks++
	s.Last = state
}

// MultiVisualSink fans notifications out to several sinks. Nil entries are
// skipped.
type MultiVisualSink []component.VisualSink

func (m MultiVisualSink) OnEnterState(state component.PlayerStateID) {
	for _, s := range m {
		if s != nil {
			s.OnEnterState(state)
		}
	}
}

func (m MultiVisualSink) OnTick(state component.PlayerStateID, velocity mgl64.Vec3, height float64) {
	for _, s := range m {
		if s != nil {
			s.OnTick(state, velocity, height)
		}
	}
}
