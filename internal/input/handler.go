// Package input turns pointer gestures into strikes and drags on a body.
//
// Coordinates are already in simulation space; mapping from window or
// terminal cells is the front-end's job.
package input

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Target receives the translated gestures. *physics.Body satisfies it.
type Target interface {
	Strike(x, y, force, radius float64) int
	Drag(x, y, dx, dy, force float64) int
}

// Pointer is one pointer sample. Force is the device pressure, 0 when the
// device has none. At is the sample time on any monotonic clock.
type Pointer struct {
	X, Y  float64
	Force float64
	At    time.Duration
}

type Config struct {
	DragSlop     float64
	BaseStrike   float64
	MaxCharge    float64
	ChargeTime   time.Duration
	StrikeRadius float64
	DragForce    float64

	// smoothing spring for drag mode
	FPS          int
	Frequency    float64
	DampingRatio float64
}

func DefaultConfig() Config {
	return Config{
		DragSlop:     6,
		BaseStrike:   1,
		MaxCharge:    3,
		ChargeTime:   600 * time.Millisecond,
		StrikeRadius: 40,
		DragForce:    1,
		FPS:          60,
		Frequency:    12,
		DampingRatio: 1,
	}
}

// Handler is a small press/drag/release state machine. A release that never
// left the slop radius strikes; a release after dragging does nothing.
type Handler struct {
	cfg    Config
	target Target
	spring harmonica.Spring

	pressed  bool
	dragging bool
	down     Pointer

	sx, sy   float64
	svx, svy float64
}

func NewHandler(target Target, cfg Config) *Handler {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Handler{
		cfg:    cfg,
		target: target,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.DampingRatio),
	}
}

func (h *Handler) Press(p Pointer) {
	h.pressed = true
	h.dragging = false
	h.down = p
	h.sx, h.sy = p.X, p.Y
	h.svx, h.svy = 0, 0
}

// Move feeds a pointer sample. It reports whether a drag was emitted.
func (h *Handler) Move(p Pointer) bool {
	if !h.pressed {
		return false
	}
	if !h.dragging {
		if math.Hypot(p.X-h.down.X, p.Y-h.down.Y) <= h.cfg.DragSlop {
			return false
		}
		h.dragging = true
	}

	px, py := h.sx, h.sy
	h.sx, h.svx = h.spring.Update(h.sx, h.svx, p.X)
	h.sy, h.svy = h.spring.Update(h.sy, h.svy, p.Y)
	dx, dy := h.sx-px, h.sy-py
	if dx == 0 && dy == 0 {
		return false
	}
	h.target.Drag(h.sx, h.sy, dx, dy, h.cfg.DragForce)
	return true
}

// Release ends the gesture. It reports whether a strike was emitted.
func (h *Handler) Release(p Pointer) bool {
	if !h.pressed {
		return false
	}
	struck := false
	if !h.dragging {
		h.target.Strike(p.X, p.Y, h.strikeForce(p), h.cfg.StrikeRadius)
		struck = true
	}
	h.pressed, h.dragging = false, false
	return struck
}

// Cancel drops the current gesture without emitting anything.
func (h *Handler) Cancel() {
	h.pressed, h.dragging = false, false
}

func (h *Handler) Pressed() bool  { return h.pressed }
func (h *Handler) Dragging() bool { return h.dragging }

// Smoothed is the spring-filtered pointer used for drags.
func (h *Handler) Smoothed() (x, y float64) {
	return h.sx, h.sy
}

// strikeForce charges linearly with hold time up to MaxCharge.
func (h *Handler) strikeForce(p Pointer) float64 {
	charge := 1.0
	if h.cfg.ChargeTime > 0 && h.cfg.MaxCharge > 1 {
		held := float64(p.At-h.down.At) / float64(h.cfg.ChargeTime)
		charge += (h.cfg.MaxCharge - 1) * math.Max(0, math.Min(held, 1))
	}
	return math.Max(p.Force, 1) * h.cfg.BaseStrike * charge
}
