package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/watercycle/common"
	"github.com/milk9111/watercycle/component"
	"github.com/milk9111/watercycle/physics"
	"github.com/milk9111/watercycle/terrain"
)

const testDt = 0.125

type recordingSink struct {
	entered []component.PlayerStateID
	ticks   int
}

func (s *recordingSink) OnEnterState(state component.PlayerStateID) {
	s.entered = append(s.entered, state)
}

func (s *recordingSink) OnTick(component.PlayerStateID, mgl64.Vec3, float64) {
	s.ticks++
}

// fakeWater never runs dry unless balance is set to zero.
type fakeWater struct {
	balance int
	drops   []mgl64.Vec3
}

func (w *fakeWater) Balance() int { return w.balance }

func (w *fakeWater) Drop(pos mgl64.Vec3) component.DropResult {
	w.drops = append(w.drops, pos)
	return component.DropPlaced
}

func testPlayerConfig() component.PlayerConfig {
	cfg := component.DefaultPlayerConfig()
	cfg.SlopeVelocity = 20
	return cfg
}

func newTestPlayer(ground terrain.Query, water component.WaterSource, pos mgl64.Vec3) (*Player, *physics.Body, *recordingSink) {
	body := physics.NewBody(pos, 1)
	sink := &recordingSink{}
	p := NewPlayer(testPlayerConfig(), body, ground, water, sink)
	p.Init()
	return p, body, sink
}

// forceState jumps straight into a state, bypassing the cycle.
func forceState(p *Player, id component.PlayerStateID) {
	p.state.Exit(&p.ctx)
	p.transition.Reset()
	p.state = playerStateFor(id)
	p.state.Enter(&p.ctx)
}

func tickUntil(p *Player, want component.PlayerStateID, max int) int {
	for i := 1; i <= max; i++ {
		p.FixedUpdate(testDt)
		if p.State() == want {
			return i
		}
	}
	return -1
}

func TestPlayerInitEntersRain(t *testing.T) {
	p, _, sink := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
	if p.State() != component.StateRain {
		t.Fatalf("expected rain, got %v", p.State())
	}
	if len(sink.entered) != 1 || sink.entered[0] != component.StateRain {
		t.Fatalf("expected one rain notification, got %v", sink.entered)
	}
}

func TestRain(t *testing.T) {
	t.Run("lands_on_terrain", func(t *testing.T) {
		p, body, sink := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
		if n := tickUntil(p, component.StateWater, 200); n < 0 {
			t.Fatalf("rain never landed, y=%v", body.Position.Y())
		}
		if body.Position.Y() > 1+1e-9 {
			t.Fatalf("landed too high: y=%v", body.Position.Y())
		}
		if len(sink.entered) != 2 || sink.entered[1] != component.StateWater {
			t.Fatalf("expected rain then water, got %v", sink.entered)
		}
	})

	t.Run("approaches_ground_by_rain_rate", func(t *testing.T) {
		p, body, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
		p.FixedUpdate(testDt)
		want := 10 - 10*testDt*p.Config().RainRate
		if math.Abs(body.Position.Y()-want) > 1e-9 {
			t.Fatalf("expected y=%v, got %v", want, body.Position.Y())
		}
	})

	t.Run("damps_velocity", func(t *testing.T) {
		p, body, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
		body.Velocity = mgl64.Vec3{1, 0, 0}
		p.FixedUpdate(testDt)
		if math.Abs(body.Velocity.X()-0.9) > 1e-12 {
			t.Fatalf("expected damped velocity 0.9, got %v", body.Velocity.X())
		}
	})

	t.Run("stays_over_ocean", func(t *testing.T) {
		ocean := terrain.NewFuncHeightfield(func(float64, float64) float64 { return -5 }, 0, 0)
		p, body, _ := newTestPlayer(ocean, nil, mgl64.Vec3{0, 10, 0})
		for i := 0; i < 100; i++ {
			p.FixedUpdate(testDt)
		}
		if p.State() != component.StateRain || body.Position.Y() != 10 {
			t.Fatalf("expected to hang in rain at y=10, got %v y=%v", p.State(), body.Position.Y())
		}
	})
}

func TestWater(t *testing.T) {
	t.Run("ocean_enters_float", func(t *testing.T) {
		p, _, sink := newTestPlayer(sunken(), nil, mgl64.Vec3{20, 0.5, 0})
		forceState(p, component.StateWater)
		p.FixedUpdate(testDt)
		if p.State() != component.StateFloat {
			t.Fatalf("expected float, got %v", p.State())
		}
		if !(p.DownHill() == mgl64.Vec3{}) {
			t.Fatalf("downhill should be cleared, got %v", p.DownHill())
		}
		if p.Transition().Time != 0 {
			t.Fatalf("transition time should reset, got %v", p.Transition().Time)
		}
		if sink.entered[len(sink.entered)-1] != component.StateFloat {
			t.Fatalf("sink should see float, got %v", sink.entered)
		}
	})

	t.Run("slope_uses_slope_velocity", func(t *testing.T) {
		slope := terrain.NewFuncHeightfield(func(x, z float64) float64 { return -x }, -1000, 0)
		p, body, _ := newTestPlayer(slope, nil, mgl64.Vec3{0, 0.5, 0})
		forceState(p, component.StateWater)
		p.FixedUpdate(testDt)

		if !p.DownHill().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-6) {
			t.Fatalf("expected +x downhill, got %v", p.DownHill())
		}
		if got := body.LastAcceleration(); !got.ApproxEqualThreshold(mgl64.Vec3{0, -20, 0}, 1e-12) {
			t.Fatalf("expected slope acceleration, got %v", got)
		}
		p.Update(testDt, component.Input{})
		if !p.Forward().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-6) {
			t.Fatalf("player should face downhill, got %v", p.Forward())
		}
	})

	t.Run("resting_on_slope_keeps_slope_velocity", func(t *testing.T) {
		height := func(x, z float64) float64 { return -0.3*x + 0.1*z }
		slope := terrain.NewFuncHeightfield(height, -1000, 0)
		p, body, _ := newTestPlayer(slope, nil, mgl64.Vec3{0, 0, 0})
		body.Scale = 0.1
		body.Position = mgl64.Vec3{0, height(0, 0) + body.HalfScale(), 0}
		forceState(p, component.StateWater)

		cfg := p.Config()
		if cfg.SlopeVelocity == cfg.GravityVelocity {
			t.Fatalf("slope and gravity velocities must differ for this test")
		}
		for i := 0; i < 400; i++ {
			p.FixedUpdate(1.0 / 60)
			if p.State() != component.StateWater {
				t.Fatalf("tick %d: left water for %v", i, p.State())
			}
			if common.IsZero(p.DownHill()) {
				t.Fatalf("tick %d: lost the slope at %v", i, body.Position)
			}
			want := mgl64.Vec3{0, -cfg.SlopeVelocity, 0}
			if got := body.LastAcceleration(); !got.ApproxEqualThreshold(want, 1e-12) {
				t.Fatalf("tick %d: expected slope acceleration, got %v", i, got)
			}
		}
	})

	t.Run("resting_on_flat_uses_gravity", func(t *testing.T) {
		p, body, _ := newTestPlayer(flat(), nil, mgl64.Vec3{3, 0.5, -2})
		forceState(p, component.StateWater)
		p.Update(testDt, component.Input{})
		p.FixedUpdate(testDt)

		cfg := p.Config()
		if got := body.LastAcceleration(); !got.ApproxEqualThreshold(mgl64.Vec3{0, -cfg.GravityVelocity, 0}, 1e-12) {
			t.Fatalf("expected gravity, got %v", got)
		}
		if body.Velocity.X() != 0 || body.Velocity.Z() != 0 {
			t.Fatalf("no input should leave horizontal velocity alone, got %v", body.Velocity)
		}
		if body.Position.X() != 3 || body.Position.Z() != -2 {
			t.Fatalf("body should stay put, got %v", body.Position)
		}
		if !(p.DownHill() == mgl64.Vec3{}) {
			t.Fatalf("flat ground has no downhill, got %v", p.DownHill())
		}
	})

	t.Run("airborne_uses_gravity", func(t *testing.T) {
		p, body, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
		forceState(p, component.StateWater)
		p.FixedUpdate(testDt)
		if got := body.LastAcceleration(); !got.ApproxEqualThreshold(mgl64.Vec3{0, -9.81, 0}, 1e-12) {
			t.Fatalf("expected gravity, got %v", got)
		}
		if !(p.DownHill() == mgl64.Vec3{}) {
			t.Fatalf("no downhill while airborne, got %v", p.DownHill())
		}
	})

	t.Run("input_impulse", func(t *testing.T) {
		p, body, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
		forceState(p, component.StateWater)
		p.Update(testDt, component.Input{Horizontal: 1, Forward: -0.5, CameraForward: mgl64.Vec3{0, 0, 1}})
		p.FixedUpdate(testDt)
		cfg := p.Config()
		wantX := testDt * cfg.InputVelocity
		wantZ := -0.5 * testDt * cfg.ForwardVelocity
		if math.Abs(body.Velocity.X()-wantX) > 1e-12 || math.Abs(body.Velocity.Z()-wantZ) > 1e-12 {
			t.Fatalf("expected horizontal velocity (%v, %v), got %v", wantX, wantZ, body.Velocity)
		}
	})
}

func TestFloat(t *testing.T) {
	p, body, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
	body.Velocity = mgl64.Vec3{3, -2, 6}
	forceState(p, component.StateWater)
	forceState(p, component.StateFloat)

	if !body.Kinematic {
		t.Fatalf("float should be kinematic")
	}
	for i := 0; i < 31; i++ {
		p.FixedUpdate(testDt)
	}
	if p.State() != component.StateFloat {
		t.Fatalf("float ended early at %v", p.Transition().Time)
	}
	want := mgl64.Vec3{31 * testDt * 1, 10, 31 * testDt * 2}
	if !body.Position.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("expected drift to %v, got %v", want, body.Position)
	}
	p.FixedUpdate(testDt)
	if p.State() != component.StateSteam {
		t.Fatalf("expected steam after float time, got %v", p.State())
	}
}

func TestFloatAtSixtyTicksPerSecond(t *testing.T) {
	p, _, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
	forceState(p, component.StateFloat)
	dt := 1.0 / 60
	for i := 0; i < 239; i++ {
		p.FixedUpdate(dt)
	}
	if p.State() != component.StateFloat {
		t.Fatalf("float ended early at %v", p.Transition().Time)
	}
	p.FixedUpdate(dt)
	if p.State() != component.StateSteam {
		t.Fatalf("expected steam after 240 ticks, got %v", p.State())
	}
}

func TestSteamRisesToCloud(t *testing.T) {
	p, body, sink := newTestPlayer(flat(), nil, mgl64.Vec3{10, 0.5, 0})
	forceState(p, component.StateSteam)

	lastY := body.Position.Y()
	ticks := 0
	for p.State() == component.StateSteam && ticks < 100 {
		p.FixedUpdate(testDt)
		ticks++
		if p.State() == component.StateSteam {
			if body.Position.Y() < lastY {
				t.Fatalf("steam sank from %v to %v", lastY, body.Position.Y())
			}
			lastY = body.Position.Y()
		}
	}
	if p.State() != component.StateCloud {
		t.Fatalf("expected cloud, got %v after %d ticks", p.State(), ticks)
	}
	if ticks > 48 {
		t.Fatalf("evaporation should finish within 6s, took %d ticks", ticks)
	}
	if body.Position.Y() < p.Config().CloudHeight-body.HalfScale() {
		t.Fatalf("cloud entered too low: y=%v", body.Position.Y())
	}
	if got := sink.entered[len(sink.entered)-1]; got != component.StateCloud {
		t.Fatalf("sink should see cloud last, got %v", got)
	}
}

func TestCloud(t *testing.T) {
	t.Run("no_water_over_land_rains", func(t *testing.T) {
		p, _, _ := newTestPlayer(bowl(), nil, mgl64.Vec3{0, 120, 0})
		forceState(p, component.StateCloud)
		if p.CloudDropRate() != 0 {
			t.Fatalf("drop rate should be 0 without water")
		}
		p.FixedUpdate(testDt)
		if p.State() != component.StateRain {
			t.Fatalf("expected rain, got %v", p.State())
		}
	})

	t.Run("no_water_drifts_ashore_before_raining", func(t *testing.T) {
		// The sea covers everything past x = 10.
		p, body, _ := newTestPlayer(sunken(), &fakeWater{}, mgl64.Vec3{30, 120, 0})
		forceState(p, component.StateCloud)

		p.FixedUpdate(testDt)
		if p.State() != component.StateCloud {
			t.Fatalf("a dry cloud over the sea should keep drifting, got %v", p.State())
		}
		if n := tickUntil(p, component.StateRain, 2000); n < 0 {
			t.Fatalf("cloud never reached land, x=%v", body.Position.X())
		}
		if body.Position.X() > 10 {
			t.Fatalf("rain should start over land, x=%v", body.Position.X())
		}
		if math.Abs(body.Position.Y()-120) > 1e-9 {
			t.Fatalf("cloud should hold its height, got %v", body.Position.Y())
		}
	})

	t.Run("timer_at_sixty_ticks_per_second", func(t *testing.T) {
		water := &fakeWater{balance: 3}
		p, _, _ := newTestPlayer(bowl(), water, mgl64.Vec3{2, 120, 0})
		forceState(p, component.StateCloud)
		dt := 1.0 / 60
		for i := 0; i < 299; i++ {
			p.FixedUpdate(dt)
		}
		if len(water.drops) != 0 {
			t.Fatalf("dropped early after %d ticks", 299)
		}
		p.FixedUpdate(dt)
		if len(water.drops) != 1 {
			t.Fatalf("expected exactly one drop after 5s, got %d", len(water.drops))
		}
	})

	t.Run("timer_and_requested_drops", func(t *testing.T) {
		m, body, _ := newTestManager(testPickupConfig(3), bowl())
		fill(t, m)
		for i := 0; i < 3; i++ {
			m.CollectIndex(i)
		}
		body.Position = mgl64.Vec3{2, 120, 0}
		sink := &recordingSink{}
		p := NewPlayer(testPlayerConfig(), body, bowl(), m, sink)
		m.SetExiter(p)
		p.Init()
		forceState(p, component.StateCloud)

		if p.CloudDropRate() != 5 {
			t.Fatalf("expected drop rate 15/3=5, got %v", p.CloudDropRate())
		}
		for i := 0; i < 39; i++ {
			p.FixedUpdate(testDt)
		}
		if m.Balance() != 3 {
			t.Fatalf("dropped before the rate elapsed: balance %d", m.Balance())
		}
		p.FixedUpdate(testDt)
		if m.Balance() != 2 {
			t.Fatalf("expected a timed drop, balance %d", m.Balance())
		}
		if p.Transition().Time != 0 {
			t.Fatalf("drop should reset the timer, got %v", p.Transition().Time)
		}
		if math.Abs(body.Position.Y()-120) > 1e-9 {
			t.Fatalf("cloud should hold its height, got %v", body.Position.Y())
		}

		p.Update(testDt, component.Input{Drop: true})
		p.FixedUpdate(testDt)
		if m.Balance() != 1 {
			t.Fatalf("expected a requested drop, balance %d", m.Balance())
		}
		if p.State() != component.StateCloud {
			t.Fatalf("should still be a cloud, got %v", p.State())
		}

		p.Update(testDt, component.Input{Drop: true})
		p.FixedUpdate(testDt)
		if m.Balance() != 0 {
			t.Fatalf("expected last drop, balance %d", m.Balance())
		}
		if p.State() != component.StateRain {
			t.Fatalf("running dry should rain, got %v", p.State())
		}
		if got := sink.entered[len(sink.entered)-1]; got != component.StateRain {
			t.Fatalf("sink should see rain last, got %v", sink.entered)
		}
	})

	t.Run("wind_pulls_towards_peak", func(t *testing.T) {
		water := &fakeWater{balance: 1}
		p, body, _ := newTestPlayer(bowl(), water, mgl64.Vec3{100, 120, 0})
		forceState(p, component.StateCloud)
		for i := 0; i < 20; i++ {
			p.FixedUpdate(testDt)
		}
		if body.Position.X() >= 100 {
			t.Fatalf("wind should push towards the origin, x=%v", body.Position.X())
		}
		if body.Velocity.Y() != 0 {
			t.Fatalf("cloud vertical velocity should stay 0, got %v", body.Velocity.Y())
		}
	})
}

func TestTransitionRules(t *testing.T) {
	p, _, sink := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
	if p.changeState(component.StateCloud) {
		t.Fatalf("rain -> cloud should be rejected")
	}
	p.ExitCloud()
	if p.State() != component.StateRain || len(sink.entered) != 1 {
		t.Fatalf("ExitCloud outside cloud should do nothing, got %v %v", p.State(), sink.entered)
	}
	if p.Transitions() != 0 {
		t.Fatalf("no transition should be counted, got %d", p.Transitions())
	}
}

func TestDropLatchedOnlyInCloud(t *testing.T) {
	p, _, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
	p.Update(testDt, component.Input{Drop: true})
	if p.memory.DropRequested {
		t.Fatalf("drop should be ignored outside cloud")
	}
}

func TestInputVectors(t *testing.T) {
	p, _, _ := newTestPlayer(flat(), nil, mgl64.Vec3{0, 10, 0})
	cases := []struct {
		name        string
		in          component.Input
		wantH, want mgl64.Vec3
	}{
		{"right", component.Input{Horizontal: 1, CameraForward: mgl64.Vec3{0, 0, 1}}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}},
		{"back", component.Input{Forward: -0.5, CameraForward: mgl64.Vec3{0, 0, 1}}, mgl64.Vec3{}, mgl64.Vec3{0, 0, -0.5}},
		{"tilted_camera_flattened", component.Input{Forward: 1, CameraForward: mgl64.Vec3{1, -1, 0}}, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}},
		{"idle", component.Input{CameraForward: mgl64.Vec3{0, 0, 1}}, mgl64.Vec3{}, mgl64.Vec3{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, f := p.inputVectors(c.in)
			if !h.ApproxEqualThreshold(c.wantH, 1e-12) || !f.ApproxEqualThreshold(c.want, 1e-12) {
				t.Fatalf("expected (%v, %v), got (%v, %v)", c.wantH, c.want, h, f)
			}
		})
	}
}
