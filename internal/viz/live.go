package viz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/input"
	"github.com/san-kum/fleshsim/internal/physics"
)

const (
	width           = 72
	height          = 26
	fps             = 60
	historyCapacity = 300
	keyStrikeForce  = 4.0
)

type TickMsg time.Time

// Model is the live terminal view: it owns one body, steps it on every tick
// and turns mouse gestures into strikes and drags.
type Model struct {
	body    *physics.Body
	initial physics.Params
	handler *input.Handler
	dt      float64

	canvas   *Canvas
	viewport Viewport
	mode     DrawMode

	running  bool
	showHelp bool
	start    time.Time
	now      func() time.Time

	paramKeys     []string
	initialParams map[string]float64
	selected      int

	energyHistory []float64
	areaHistory   []float64

	// gauge eases the displayed peak stress toward the measured one
	gauge              harmonica.Spring
	gaugePos, gaugeVel float64

	lastTears int
	status    string
}

// NewModel builds a body from p and wraps it in a live view.
func NewModel(p physics.Params, logger *log.Logger) *Model {
	body := physics.NewBody()
	body.SetLogger(logger)
	body.Build(p)

	params := body.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	canvas := NewCanvas(width, height)
	m := &Model{
		body:          body,
		initial:       body.Params(),
		handler:       input.NewHandler(body, input.DefaultConfig()),
		dt:            1.0 / fps,
		canvas:        canvas,
		viewport:      NewViewport(body.Params().Width, body.Params().Height, canvas),
		running:       true,
		now:           time.Now,
		paramKeys:     keys,
		initialParams: params,
		energyHistory: make([]float64, 0, historyCapacity),
		areaHistory:   make([]float64, 0, historyCapacity),
		gauge:         harmonica.NewSpring(harmonica.FPS(fps), 6, 0.8),
	}
	m.start = m.now()
	return m
}

// Body exposes the simulated body.
func (m *Model) Body() *physics.Body { return m.body }

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.1)
		case "down", "j":
			m.adjustParam(0.9)
		case "w":
			m.mode = (m.mode + 1) % 2
		case "s":
			p := m.body.Params()
			n := m.body.Strike(p.CenterX, p.CenterY, keyStrikeForce, input.DefaultConfig().StrikeRadius)
			m.status = fmt.Sprintf("strike hit %d particles", n)
		case "t":
			m.status = "theme " + NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// mouse maps a terminal cell to world space; the canvas sits inside
// CanvasFrame's padding.
func (m *Model) mouse(msg tea.MouseMsg) {
	if m.showHelp {
		return
	}
	x, y := m.viewport.CellToWorld(msg.X-2, msg.Y-1)
	p := input.Pointer{X: x, Y: y, Force: 1, At: m.now().Sub(m.start)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.handler.Press(p)
		}
	case tea.MouseActionMotion:
		m.handler.Move(p)
	case tea.MouseActionRelease:
		if m.handler.Release(p) {
			m.status = fmt.Sprintf("strike at %.0f,%.0f", x, y)
		}
	}
}

// step advances the body one frame and records telemetry.
func (m *Model) step() {
	m.body.Update(m.dt)

	m.energyHistory = appendCapped(m.energyHistory, m.body.KineticEnergy())
	ratio := 0.0
	if target := m.body.TargetArea(); target > 0 {
		ratio = m.body.EnclosedArea() / target
	}
	m.areaHistory = appendCapped(m.areaHistory, ratio)

	m.gaugePos, m.gaugeVel = m.gauge.Update(m.gaugePos, m.gaugeVel, m.body.MaxStressRatio())

	if tears := m.body.TearCount(); tears > m.lastTears {
		m.status = fmt.Sprintf("tore %d spring(s)", tears-m.lastTears)
		m.lastTears = tears
	}
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.body.GetParams()[key]
	if val == 0 {
		val = 0.01
	}
	newVal := val * factor
	if key == "iterations" {
		newVal = val + (factor-1)*10
	}
	if err := m.body.SetParam(key, newVal); err != nil {
		var be *dynamo.BoundsError
		if errors.As(err, &be) {
			m.status = fmt.Sprintf("%s must be %s", be.Param, be.Want)
		} else {
			m.status = err.Error()
		}
	}
}

// reset rebuilds the body from the parameters it started with.
func (m *Model) reset() {
	m.body.Build(m.initial)
	m.handler.Cancel()
	m.energyHistory = m.energyHistory[:0]
	m.areaHistory = m.areaHistory[:0]
	m.gaugePos, m.gaugeVel = 0, 0
	m.lastTears = 0
	m.status = "reset"
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawBody(m.canvas, m.viewport, m.body, m.mode)

	if m.handler.Dragging() {
		x, y := m.handler.Smoothed()
		px, py := m.viewport.ToPixel(x, y)
		for d := -2; d <= 2; d++ {
			m.canvas.Set(px+d, py, TintOutline)
			m.canvas.Set(px, py+d, TintOutline)
		}
	}
}

// View renders the TUI interface.
func (m *Model) View() string {
	if m.showHelp {
		return helpText
	}

	m.draw()
	canvasView := CanvasFrame.Render(m.canvas.Render(TintStyle(CurrentTheme)))

	var s strings.Builder
	s.WriteString(GradientText("FLESH", CurrentTheme.Skin, CurrentTheme.Wound) + "  ")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", float64(m.body.StepCount())*m.dt))
	row("Particles", fmt.Sprintf("%d / %d", len(m.body.AliveParticles()), len(m.body.Particles())))
	row("Springs", fmt.Sprintf("%d", len(m.body.ActiveSprings())))
	row("Triangles", fmt.Sprintf("%d", m.body.ActiveTriangleCount()))
	row("Tears", fmt.Sprintf("%d", m.body.TearCount()))
	row("Ripples", fmt.Sprintf("%d", m.body.ActiveRipples()))
	row("Stress", StressGauge(m.gaugePos, 20, CurrentTheme))
	row("Area", SparklineChart(m.areaHistory, 20))
	row("Draw", m.mode.String())

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(GraphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(36) + "\n")
	params := m.body.GetParams()
	for i, k := range m.paramKeys {
		val, initial := params[k], m.initialParams[k]
		barWidth, ratio := 10, 0.5
		if initial > 0 {
			ratio = max(0, min(val/(2*initial), 1))
		}
		filled := int(ratio * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-14s %s %.3f", k, bar, val)
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(m.status) + "\n")
	}
	s.WriteString(KeyHint.Render("click:strike  drag:pull  ?:help"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.Render(s.String()))
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD & MOUSE            ║
╠══════════════════════════════════════╣
║  Click    - Strike (hold to charge)  ║
║  Drag     - Pull the flesh           ║
║  S        - Strike the centre        ║
║  Space    - Pause/Resume             ║
║  R        - Rebuild the body         ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  W        - Toggle mesh/springs      ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`

// Run starts the live view on the alternate screen with mouse tracking.
func Run(p physics.Params, logger *log.Logger) error {
	m := NewModel(p, logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
