package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/mesh"
)

// Scene is the read-only view of a body that renderers draw.
type Scene interface {
	Particles() []dynamo.Particle
	ActiveSprings() []dynamo.Spring
	Triangles() []mesh.Triangle
	BoundaryLoop() []int
}

// Cell tints. Stress tints occupy TintStress..TintStress+StressLevels-1.
// A cell keeps its highest tint, so TintOutline sits above the stress range
// and the silhouette survives particles and interior edges drawn over it.
const (
	TintNone   uint8 = 0
	TintStress uint8 = 1

	StressLevels = 8

	TintOutline = TintStress + StressLevels
)

func stressTint(s float64) uint8 {
	level := int(max(0, min(s, 1)) * float64(StressLevels-1))
	return TintStress + uint8(level)
}

// DrawMode selects what the body interior is drawn from.
type DrawMode int

const (
	DrawMesh DrawMode = iota
	DrawSprings
)

func (d DrawMode) String() string {
	if d == DrawSprings {
		return "springs"
	}
	return "mesh"
}

// DrawBody rasterizes the scene: interior edges tinted by stress, the
// boundary loop in the outline tint, then every living particle.
func DrawBody(c *Canvas, vp Viewport, s Scene, mode DrawMode) {
	ps := s.Particles()
	line := func(a, b int, tint uint8) {
		x0, y0 := vp.ToPixel(ps[a].X, ps[a].Y)
		x1, y1 := vp.ToPixel(ps[b].X, ps[b].Y)
		c.DrawLine(x0, y0, x1, y1, tint)
	}

	switch mode {
	case DrawSprings:
		for _, sp := range s.ActiveSprings() {
			if sp.Torn || ps[sp.A].Dead || ps[sp.B].Dead {
				continue
			}
			line(sp.A, sp.B, stressTint(sp.StressRatio))
		}
	default:
		for _, t := range s.Triangles() {
			if !t.Active(ps) {
				continue
			}
			tint := stressTint((ps[t.A].Stress + ps[t.B].Stress + ps[t.C].Stress) / 3)
			line(t.A, t.B, tint)
			line(t.B, t.C, tint)
			line(t.C, t.A, tint)
		}
	}

	loop := s.BoundaryLoop()
	for i := range loop {
		line(loop[i], loop[(i+1)%len(loop)], TintOutline)
	}

	for i := range ps {
		if ps[i].Dead {
			continue
		}
		x, y := vp.ToPixel(ps[i].X, ps[i].Y)
		c.Set(x, y, stressTint(ps[i].Stress))
	}
}

// TintStyle renders canvas cells in the theme's colours.
func TintStyle(theme Theme) func(tint uint8, s string) string {
	styles := make([]lipgloss.Style, TintOutline+1)
	styles[TintNone] = lipgloss.NewStyle()
	styles[TintOutline] = lipgloss.NewStyle().Foreground(theme.Outline)
	for i := 0; i < StressLevels; i++ {
		hex := theme.StressHex(float64(i) / float64(StressLevels-1))
		styles[int(TintStress)+i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return func(tint uint8, s string) string {
		if int(tint) >= len(styles) {
			return s
		}
		return styles[tint].Render(s)
	}
}
