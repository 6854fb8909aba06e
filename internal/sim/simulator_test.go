package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/physics"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	return cfg
}

func TestSimulatorRun(t *testing.T) {
	cfg := shortConfig()
	cfg.Strikes = []config.StrikeConfig{{At: 0.1, X: 400, Y: 300, Force: 1, Radius: 40}}

	result, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 31 {
		t.Errorf("expected 31 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 30 {
		t.Errorf("expected 30 steps, got %d", result.StepsTaken)
	}
	if result.Body.StepCount() != 30 {
		t.Errorf("body stepped %d times", result.Body.StepCount())
	}

	peak := 0.0
	for _, f := range result.Frames {
		if f.Time < 0.1 && f.MaxStress > 0 {
			t.Fatalf("stress before the strike at t=%g", f.Time)
		}
		if f.MaxStress > peak {
			peak = f.MaxStress
		}
	}
	if peak == 0 {
		t.Error("scheduled strike never landed")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"nil", nil},
		{"zero dt", func() *config.Config { c := shortConfig(); c.Dt = 0; return c }()},
		{"negative duration", func() *config.Config { c := shortConfig(); c.Duration = -1; return c }()},
		{"bad threshold", func() *config.Config { c := shortConfig(); c.Body.TearThreshold = 0; return c }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Run(context.Background(), tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, shortConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(f Frame) {
	t.count++
	t.sum += f.Area
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New()
	metric := &testMetric{}
	s.AddMetric(metric)

	seen := 0
	s.AddObserver(ObserverFunc(func(b *physics.Body, f Frame) {
		seen++
		if f.Step != b.StepCount() {
			t.Errorf("frame step %d, body step %d", f.Step, b.StepCount())
		}
	}))

	result, err := s.Run(context.Background(), shortConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 30 || seen != 30 {
		t.Errorf("expected 30 observations, got metric=%d observer=%d", metric.count, seen)
	}
}

func TestEnsemble(t *testing.T) {
	var cfgs []*config.Config
	for seed := int64(1); seed <= 4; seed++ {
		c := shortConfig()
		c.Body.Seed = seed
		cfgs = append(cfgs, c)
	}
	e := NewEnsemble(func() []Metric { return []Metric{&testMetric{}} })
	e.Workers = 2

	results, err := e.Run(context.Background(), cfgs)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r == nil || r.StepsTaken != 30 {
			t.Fatalf("run %d incomplete: %+v", i, r)
		}
		if r.Body.Params().Seed != int64(i+1) {
			t.Errorf("result %d out of order", i)
		}
	}
}

func TestEnsemblePropagatesErrors(t *testing.T) {
	bad := shortConfig()
	bad.Dt = -1
	_, err := NewEnsemble(nil).Run(context.Background(), []*config.Config{shortConfig(), bad})
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSimErrorUnwrap(t *testing.T) {
	err := SimError{Time: 1.5, Step: 90, Message: "state diverged", Err: dynamo.ErrUnstable}
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Error("SimError should unwrap to its cause")
	}
	if err.Error() != "step 90 (t=1.5000): state diverged" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
