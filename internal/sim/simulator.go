package sim

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/physics"
)

// Simulator drives a freshly built body through a scripted run.
type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run builds a body from cfg and steps it for cfg.Duration, applying the
// scheduled strikes and drags. A diverged body stops the run with ErrUnstable.
func (s *Simulator) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	body := physics.NewBody()
	body.SetLogger(s.logger)
	body.Build(cfg.BodyParams())

	steps := cfg.Steps()
	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
		Body:    body,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	strikes := append([]config.StrikeConfig(nil), cfg.Strikes...)
	sort.SliceStable(strikes, func(i, j int) bool { return strikes[i].At < strikes[j].At })
	next := 0

	t := 0.0
	dt := cfg.Dt
	result.Frames = append(result.Frames, Capture(body, t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for next < len(strikes) && strikes[next].At <= t+dt/2 {
			st := strikes[next]
			n := body.Strike(st.X, st.Y, st.Force, st.Radius)
			s.logger.Debug("strike", "t", t, "x", st.X, "y", st.Y, "force", st.Force, "particles", n)
			next++
		}
		for _, d := range cfg.Drags {
			if t+dt/2 >= d.At && t+dt/2 < d.At+d.For {
				body.Drag(d.X, d.Y, d.DX, d.DY, d.Force)
			}
		}

		body.Update(dt)
		t += dt
		result.StepsTaken++

		f := Capture(body, t)
		if !dynamo.IsFinite(f.KineticEnergy) || !dynamo.IsFinite(f.Area) {
			return result, SimError{Time: t, Step: i, Message: "state diverged", Err: dynamo.ErrUnstable}
		}

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnStep(body, f)
		}
		result.Frames = append(result.Frames, f)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.TearEvents = body.TearEvents()

	s.logger.Info("run complete",
		"steps", result.StepsTaken,
		"tears", body.TearCount(),
		"alive", len(body.AliveParticles()))
	return result, nil
}

func (s *Simulator) validateConfig(cfg *config.Config) error {
	if cfg == nil {
		return dynamo.ErrInvalidConfig
	}
	return cfg.Validate()
}
