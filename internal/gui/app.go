package gui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fleshsim/internal/input"
	"github.com/san-kum/fleshsim/internal/physics"
	"github.com/san-kum/fleshsim/internal/viz"
)

// Theme Colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColCursor  = rl.NewColor(255, 255, 255, 120)
)

const (
	panelWidth   = 260
	maxTelemetry = 240
)

// App is the window front-end: one body, stepped at the frame rate, struck
// and dragged with the mouse.
type App struct {
	Body    *physics.Body
	Handler *input.Handler
	Initial physics.Params
	Theme   viz.Theme

	Running     bool
	ShowSprings bool
	ShowHelp    bool

	ParamKeys []string
	ParamSel  int

	Elapsed   float64   // simulated seconds
	Telemetry []float64 // kinetic energy per frame
	Status    string

	logger *log.Logger
}

func initWindow(w, h int) {
	rl.InitWindow(int32(w)+panelWidth, int32(h), "fleshsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp builds the body. The window must already be open.
func NewApp(p physics.Params, logger *log.Logger) *App {
	body := physics.NewBody()
	body.SetLogger(logger)
	body.Build(p)

	keys := make([]string, 0)
	for k := range body.GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &App{
		Body:      body,
		Handler:   input.NewHandler(body, input.DefaultConfig()),
		Initial:   body.Params(),
		Theme:     viz.CurrentTheme,
		Running:   true,
		ParamKeys: keys,
		Telemetry: make([]float64, 0, maxTelemetry),
		logger:    logger,
	}
}

// Run opens a window sized to the body's bounds and blocks until it closes.
func Run(p physics.Params, logger *log.Logger) {
	p = p.Normalized()
	initWindow(int(p.Width), int(p.Height))
	defer rl.CloseWindow()

	app := NewApp(p, logger)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and steps the body. It reports false on quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}
	a.keys()
	a.mouse()

	if a.Running {
		dt := min(float64(rl.GetFrameTime()), physics.MaxDt)
		a.Body.Update(dt)
		a.Elapsed += dt
		a.Telemetry = append(a.Telemetry, a.Body.KineticEnergy())
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	}
	return true
}

func (a *App) keys() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Body.Build(a.Initial)
		a.Handler.Cancel()
		a.Telemetry = a.Telemetry[:0]
		a.Elapsed = 0
		a.Status = "reset"
	case rl.IsKeyPressed(rl.KeyW):
		a.ShowSprings = !a.ShowSprings
	case rl.IsKeyPressed(rl.KeyT):
		a.Theme = viz.GetTheme(viz.NextTheme())
	case rl.IsKeyPressed(rl.KeySlash):
		a.ShowHelp = !a.ShowHelp
	case rl.IsKeyPressed(rl.KeyTab):
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	case rl.IsKeyPressed(rl.KeyUp):
		a.adjust(1.1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.adjust(0.9)
	}
}

func (a *App) adjust(factor float64) {
	key := a.ParamKeys[a.ParamSel]
	v := a.Body.GetParams()[key]
	if v == 0 {
		v = 0.01
	}
	if key == "iterations" {
		v += (factor - 1) * 10
	} else {
		v *= factor
	}
	if err := a.Body.SetParam(key, v); err != nil {
		a.Status = err.Error()
		a.logger.Warn("parameter rejected", "param", key, "err", err)
	}
}

// mouse feeds the gesture handler in window coordinates, which are world
// coordinates for the left pane.
func (a *App) mouse() {
	pos := rl.GetMousePosition()
	p := input.Pointer{
		X:     float64(pos.X),
		Y:     float64(pos.Y),
		Force: 1,
		At:    time.Duration(rl.GetTime() * float64(time.Second)),
	}
	if p.X > a.Initial.Width {
		return
	}

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		a.Handler.Press(p)
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		if a.Handler.Release(p) {
			a.Status = fmt.Sprintf("strike at %.0f,%.0f", p.X, p.Y)
		}
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		a.Handler.Move(p)
	}
}
