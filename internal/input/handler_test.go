package input

import (
	"math"
	"testing"
	"time"
)

type call struct {
	kind          string
	x, y          float64
	dx, dy, force float64
	radius        float64
}

type recorder struct {
	calls []call
}

func (r *recorder) Strike(x, y, force, radius float64) int {
	r.calls = append(r.calls, call{kind: "strike", x: x, y: y, force: force, radius: radius})
	return 1
}

func (r *recorder) Drag(x, y, dx, dy, force float64) int {
	r.calls = append(r.calls, call{kind: "drag", x: x, y: y, dx: dx, dy: dy, force: force})
	return 1
}

func TestTapStrikes(t *testing.T) {
	tests := []struct {
		name      string
		hold      time.Duration
		pressure  float64
		wantForce float64
	}{
		{"quick tap", 0, 0, 1},
		{"half charge", 300 * time.Millisecond, 0, 2},
		{"full charge", 2 * time.Second, 0, 3},
		{"hard press", 0, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			h := NewHandler(rec, DefaultConfig())

			h.Press(Pointer{X: 10, Y: 10})
			h.Move(Pointer{X: 12, Y: 11, At: tt.hold / 2})
			struck := h.Release(Pointer{X: 12, Y: 11, Force: tt.pressure, At: tt.hold})

			if !struck || len(rec.calls) != 1 || rec.calls[0].kind != "strike" {
				t.Fatalf("expected one strike, got %+v", rec.calls)
			}
			c := rec.calls[0]
			if c.x != 12 || c.y != 11 {
				t.Errorf("expected strike at release point, got (%g,%g)", c.x, c.y)
			}
			if math.Abs(c.force-tt.wantForce) > 1e-9 {
				t.Errorf("expected force %g, got %g", tt.wantForce, c.force)
			}
			if c.radius != DefaultConfig().StrikeRadius {
				t.Errorf("unexpected radius %g", c.radius)
			}
		})
	}
}

func TestDragGesture(t *testing.T) {
	rec := &recorder{}
	h := NewHandler(rec, DefaultConfig())

	h.Press(Pointer{X: 0, Y: 0})
	for i := 1; i <= 10; i++ {
		h.Move(Pointer{X: float64(i) * 5, Y: 0, At: time.Duration(i) * 16 * time.Millisecond})
	}
	struck := h.Release(Pointer{X: 50, Y: 0})

	if struck {
		t.Error("release after drag must not strike")
	}
	if len(rec.calls) == 0 {
		t.Fatal("no drags emitted")
	}
	for _, c := range rec.calls {
		if c.kind != "drag" {
			t.Fatalf("unexpected %s during drag", c.kind)
		}
		if c.dx <= 0 {
			t.Errorf("drag delta should follow the pointer, got %g", c.dx)
		}
	}
	last := rec.calls[len(rec.calls)-1]
	if last.x <= 0 || last.x >= 50 {
		t.Errorf("smoothed pointer should lag behind the raw one, got %g", last.x)
	}
}

func TestMoveWithinSlopDoesNotDrag(t *testing.T) {
	rec := &recorder{}
	h := NewHandler(rec, DefaultConfig())

	h.Press(Pointer{X: 0, Y: 0})
	if h.Move(Pointer{X: 3, Y: 3}) || h.Dragging() {
		t.Error("movement inside slop started a drag")
	}
	if len(rec.calls) != 0 {
		t.Errorf("unexpected calls %+v", rec.calls)
	}
}

func TestCancelAndStrayEvents(t *testing.T) {
	rec := &recorder{}
	h := NewHandler(rec, DefaultConfig())

	if h.Move(Pointer{X: 50}) || h.Release(Pointer{}) {
		t.Error("events without a press should be ignored")
	}

	h.Press(Pointer{X: 1, Y: 1})
	h.Cancel()
	if h.Release(Pointer{X: 1, Y: 1}) {
		t.Error("release after cancel struck")
	}
	if len(rec.calls) != 0 || h.Pressed() {
		t.Errorf("cancelled gesture leaked: %+v", rec.calls)
	}
}
