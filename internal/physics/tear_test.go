package physics

import (
	"testing"

	"github.com/san-kum/fleshsim/internal/dynamo"
)

func TestTearDetectorIsPure(t *testing.T) {
	springs := []dynamo.Spring{
		{StressRatio: 0.9},
		{StressRatio: 0.5},
		{StressRatio: 0.99, Torn: true},
		{StressRatio: 0.86},
	}
	d := NewTearDetector()

	got := d.Detect(springs)

	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("expected [0 3], got %v", got)
	}
	if springs[0].Torn || springs[3].Torn {
		t.Error("Detect mutated springs")
	}
}

func TestTearDetectorThresholdClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{2, 1},
		{0, minThreshold},
		{-3, minThreshold},
	}
	d := NewTearDetector()
	for _, tt := range tests {
		d.SetThreshold(tt.in)
		if d.Threshold() != tt.want {
			t.Errorf("SetThreshold(%g): expected %g, got %g", tt.in, tt.want, d.Threshold())
		}
	}
}

func TestTearHistoryRing(t *testing.T) {
	var h tearHistory
	for i := 0; i < TearHistoryCap+7; i++ {
		h.push(TearEvent{Step: i})
	}

	ev := h.events()
	if len(ev) != TearHistoryCap {
		t.Fatalf("expected %d events, got %d", TearHistoryCap, len(ev))
	}
	if ev[0].Step != 7 || ev[len(ev)-1].Step != TearHistoryCap+6 {
		t.Errorf("expected oldest 7 and newest %d, got %d and %d", TearHistoryCap+6, ev[0].Step, ev[len(ev)-1].Step)
	}

	h.reset()
	if len(h.events()) != 0 {
		t.Error("reset kept events")
	}
}
