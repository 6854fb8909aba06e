package physics

import (
	"testing"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

func TestRipplePushesAheadAndPullsBehind(t *testing.T) {
	ps := []dynamo.Particle{
		dynamo.NewParticle(10, 0, 1),
		dynamo.NewParticle(2, 0, 1),
		dynamo.NewParticle(100, 0, 1),
	}
	r := NewRipples()
	r.Spawn(0, 0, 1, 40)

	r.Update(ps, 1.0/60)

	if ps[0].FX <= 0 {
		t.Errorf("particle ahead of the front should be pushed out, got %g", ps[0].FX)
	}
	if ps[1].FX >= 0 {
		t.Errorf("particle behind the front should be pulled in, got %g", ps[1].FX)
	}
	if ps[2].FX != 0 {
		t.Error("particle outside the annulus was touched")
	}
	if ps[0].Stress <= 0 {
		t.Error("ripple did not raise stress")
	}
}

func TestRippleExpiresPastReach(t *testing.T) {
	r := NewRipples()
	r.Spawn(0, 0, 1, 40)
	r.Spawn(0, 0, 0, 40)
	r.Spawn(0, 0, 1, 0)
	if r.Active() != 1 {
		t.Fatalf("expected only the valid wave, got %d", r.Active())
	}

	for i := 0; i < 40; i++ {
		r.Update(nil, 1.0/60)
	}
	if r.Active() != 0 {
		t.Errorf("wave outlived its reach: %+v", r.Waves())
	}
}

func TestRippleDecays(t *testing.T) {
	r := NewRipples()
	r.Spawn(0, 0, 1, 40)
	r.Update(nil, 1.0/60)
	first := r.Waves()[0]
	r.Update(nil, 1.0/60)
	second := r.Waves()[0]

	if second.Magnitude >= first.Magnitude || second.Front <= first.Front {
		t.Errorf("wave did not expand and decay: %+v -> %+v", first, second)
	}
}
