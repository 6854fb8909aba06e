package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/fleshsim/internal/viz"
)

// BodyToSVG draws a snapshot of the scene in world coordinates: filled
// triangles shaded by mean particle stress, the boundary outline, and every
// living particle.
func BodyToSVG(scene viz.Scene, width, height float64, theme viz.Theme) string {
	ps := scene.Particles()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString(`<g class="triangles" stroke-width="0.5">` + "\n")
	for _, t := range scene.Triangles() {
		if !t.Active(ps) {
			continue
		}
		a, b, c := ps[t.A], ps[t.B], ps[t.C]
		fill := theme.StressHex((a.Stress + b.Stress + c.Stress) / 3)
		fmt.Fprintf(&sb, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s"/>`+"\n",
			a.X, a.Y, b.X, b.Y, c.X, c.Y, fill, fill)
	}
	sb.WriteString("</g>\n")

	if loop := scene.BoundaryLoop(); len(loop) >= 3 {
		fmt.Fprintf(&sb, `<path class="outline" fill="none" stroke="%s" stroke-width="1.5" d="M`, theme.Outline)
		for i, idx := range loop {
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", ps[idx].X, ps[idx].Y)
		}
		sb.WriteString(` Z"/>` + "\n")
	}

	sb.WriteString(`<g class="particles">` + "\n")
	for i := range ps {
		if ps[i].Dead {
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2" fill="%s"/>`+"\n",
			ps[i].X, ps[i].Y, theme.StressHex(ps[i].Stress))
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SeriesToSVG plots a sampled series (e.g. kinetic energy per frame) as a
// polyline scaled to fill the image.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}

	// pad 10% so extremes are not clipped by the stroke
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	lo -= rng * 0.1
	rng *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	n := len(values) - 1
	for i, v := range values {
		x := float64(i) / float64(n) * float64(width)
		y := float64(height) - (v-lo)/rng*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>` + "\n</svg>\n")
	return sb.String()
}
