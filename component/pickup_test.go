package component

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPickupIndexAssignedOnce(t *testing.T) {
	var p Pickup
	if p.Index() != -1 {
		t.Fatalf("unassigned pickup should report -1, got %d", p.Index())
	}
	if err := p.SetIndex(4); err != nil {
		t.Fatalf("first SetIndex failed: %v", err)
	}
	if err := p.SetIndex(9); !errors.Is(err, ErrIndexAssigned) {
		t.Fatalf("expected ErrIndexAssigned, got %v", err)
	}
	if p.Index() != 4 {
		t.Fatalf("index should stay 4, got %d", p.Index())
	}
}

func TestPickupLifecycle(t *testing.T) {
	p := NewPickup(2, mgl64.Vec3{1, 2, 3})
	if !p.Available() {
		t.Fatalf("new pickup should be available")
	}
	p.PickUp()
	if p.Available() {
		t.Fatalf("collected pickup should not be available")
	}
	p.Reset()
	if !p.Available() || p.Index() != 2 {
		t.Fatalf("reset pickup should be available with the same index")
	}
}

func TestDropResult(t *testing.T) {
	cases := []struct {
		r       DropResult
		name    string
		dropped bool
	}{
		{DropEmpty, "empty", false},
		{DropNoTerrain, "no_terrain", false},
		{DropPlaced, "placed", true},
		{DropDepleted, "depleted", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.r.String() != c.name || c.r.Dropped() != c.dropped {
				t.Fatalf("unexpected %v: dropped=%v", c.r, c.r.Dropped())
			}
		})
	}
}

func TestPlayerStateNames(t *testing.T) {
	for id := StateWater; id <= StateRain; id++ {
		got, err := ParsePlayerState(id.String())
		if err != nil || got != id {
			t.Fatalf("round trip %v: got %v, %v", id, got, err)
		}
	}
	if _, err := ParsePlayerState("plasma"); err == nil {
		t.Fatalf("unknown state should fail to parse")
	}
}

func TestTransitionCaptureOnce(t *testing.T) {
	var tr Transition
	tr.CapturePosition(mgl64.Vec3{1, 0, 0})
	tr.CapturePosition(mgl64.Vec3{2, 0, 0})
	if tr.Position != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("only the first capture should stick, got %v", tr.Position)
	}
	tr.Time = 3
	tr.Reset()
	if tr.HasPosition || tr.Time != 0 {
		t.Fatalf("reset should clear the transition, got %+v", tr)
	}
}
