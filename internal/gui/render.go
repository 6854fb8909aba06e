package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fleshsim/internal/physics"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ColBg)
	a.DrawBody()
	a.DrawCursor()
	a.DrawPanel()
	if a.ShowHelp {
		a.DrawHelp()
	}
}

func (a *App) stressColor(s float64) rl.Color {
	r, g, b := a.Theme.StressRGB(s)
	return rl.NewColor(r, g, b, 255)
}

func vec(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x), float32(y))
}

// DrawBody fills the mesh, then draws springs or the outline, then particles.
func (a *App) DrawBody() {
	ps := a.Body.Particles()

	for _, t := range a.Body.Triangles() {
		if !t.Active(ps) {
			continue
		}
		p1, p2, p3 := ps[t.A], ps[t.B], ps[t.C]
		col := a.stressColor((p1.Stress + p2.Stress + p3.Stress) / 3)
		v1, v2, v3 := vec(p1.X, p1.Y), vec(p2.X, p2.Y), vec(p3.X, p3.Y)
		// raylib culls clockwise triangles; y points down on screen
		if (v2.X-v1.X)*(v3.Y-v1.Y)-(v2.Y-v1.Y)*(v3.X-v1.X) > 0 {
			v2, v3 = v3, v2
		}
		rl.DrawTriangle(v1, v2, v3, col)
	}

	if a.ShowSprings {
		for _, s := range a.Body.ActiveSprings() {
			if ps[s.A].Dead || ps[s.B].Dead {
				continue
			}
			col := a.stressColor(s.StressRatio)
			rl.DrawLineEx(vec(ps[s.A].X, ps[s.A].Y), vec(ps[s.B].X, ps[s.B].Y), 1, rl.ColorBrightness(col, -0.3))
		}
	}

	outline := rl.White
	if c, err := colorful.Hex(string(a.Theme.Outline)); err == nil {
		r, g, b := c.RGB255()
		outline = rl.NewColor(r, g, b, 255)
	}
	loop := a.Body.BoundaryLoop()
	for i := range loop {
		p, q := ps[loop[i]], ps[loop[(i+1)%len(loop)]]
		rl.DrawLineEx(vec(p.X, p.Y), vec(q.X, q.Y), 2, outline)
	}

	for i := range ps {
		if ps[i].Dead {
			continue
		}
		rl.DrawCircleV(vec(ps[i].X, ps[i].Y), 2+2*float32(ps[i].Stress), a.stressColor(ps[i].Stress))
	}
}

func (a *App) DrawCursor() {
	if !a.Handler.Dragging() {
		return
	}
	x, y := a.Handler.Smoothed()
	rl.DrawCircleLines(int32(x), int32(y), physics.DragRadius, ColCursor)
}

func (a *App) DrawPanel() {
	x := int32(a.Initial.Width) + 16
	y := int32(16)
	line := func(text string, col rl.Color) {
		rl.DrawText(text, x, y, 16, col)
		y += 22
	}

	state := "RUNNING"
	if !a.Running {
		state = "PAUSED"
	}
	line("FLESHSIM  "+state, ColSelect)
	y += 8
	line(fmt.Sprintf("time       %.2fs", a.Elapsed), ColText)
	line(fmt.Sprintf("particles  %d", len(a.Body.AliveParticles())), ColText)
	line(fmt.Sprintf("springs    %d", len(a.Body.ActiveSprings())), ColText)
	line(fmt.Sprintf("triangles  %d", a.Body.ActiveTriangleCount()), ColText)
	line(fmt.Sprintf("tears      %d", a.Body.TearCount()), ColText)
	line(fmt.Sprintf("ripples    %d", a.Body.ActiveRipples()), ColText)
	line(fmt.Sprintf("area       %.0f / %.0f", a.Body.EnclosedArea(), a.Body.TargetArea()), ColText)
	y += 8

	params := a.Body.GetParams()
	for i, k := range a.ParamKeys {
		col := ColTextDim
		if i == a.ParamSel {
			col = ColSelect
		}
		line(fmt.Sprintf("%-15s %.3f", k, params[k]), col)
	}
	y += 8

	a.drawTelemetry(x, y, panelWidth-32, 80)
	y += 96
	if a.Status != "" {
		line(a.Status, ColText)
	}
	rl.DrawText("? help", x, int32(a.Initial.Height)-28, 14, ColTextDim)
}

// drawTelemetry plots kinetic energy scaled to its running peak.
func (a *App) drawTelemetry(x, y, w, h int32) {
	rl.DrawRectangleLines(x, y, w, h, ColTextDim)
	if len(a.Telemetry) < 2 {
		return
	}
	peak := 0.0
	for _, v := range a.Telemetry {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}
	step := float32(w) / float32(maxTelemetry-1)
	for i := 1; i < len(a.Telemetry); i++ {
		x0 := float32(x) + float32(i-1)*step
		x1 := float32(x) + float32(i)*step
		y0 := float32(y+h) - float32(a.Telemetry[i-1]/peak)*float32(h)
		y1 := float32(y+h) - float32(a.Telemetry[i]/peak)*float32(h)
		rl.DrawLineV(rl.NewVector2(x0, y0), rl.NewVector2(x1, y1), ColText)
	}
}

func (a *App) DrawHelp() {
	lines := []string{
		"click    strike (hold to charge)",
		"drag     pull the flesh",
		"space    pause / resume",
		"r        rebuild",
		"w        toggle springs",
		"t        cycle theme",
		"tab      select parameter",
		"up/down  tune parameter",
		"q        quit",
	}
	rl.DrawRectangle(40, 40, 360, int32(len(lines))*22+32, rl.NewColor(0, 0, 0, 220))
	for i, l := range lines {
		rl.DrawText(l, 56, 56+int32(i)*22, 16, ColText)
	}
}
