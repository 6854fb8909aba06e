package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/metrics"
	"github.com/san-kum/fleshsim/internal/sim"
)

func TestGridPoints(t *testing.T) {
	g := NewGridSearch([]string{"stiffness", "pressure"}, [][]float64{{0.5, 1}, {0, 0.1, 0.2}})
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["stiffness"] != 0.5 || points[0]["pressure"] != 0 {
		t.Errorf("unexpected first point %v", points[0])
	}
	if points[5]["stiffness"] != 1 || points[5]["pressure"] != 0.2 {
		t.Errorf("unexpected last point %v", points[5])
	}
}

func TestGridSearch(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.25
	base.Strikes = []config.StrikeConfig{{At: 0, X: 400, Y: 300, Force: 80, Radius: 60}}

	g := NewGridSearch([]string{"tear_threshold"}, [][]float64{{0.3, 1}})
	g.Metrics = func() []sim.Metric { return []sim.Metric{metrics.NewTears()} }

	best, all, err := g.Search(context.Background(), base, "tears")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(all))
	}
	if all[0].Params["tear_threshold"] != 0.3 || all[1].Params["tear_threshold"] != 1 {
		t.Errorf("candidates out of grid order: %v", all)
	}
	if best.Value != min(all[0].Value, all[1].Value) {
		t.Errorf("best %v is not the minimum of %v", best, all)
	}
}

func TestGridSearchErrors(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.1

	g := NewGridSearch([]string{"stiffness"}, nil)
	if _, _, err := g.Search(context.Background(), base, "tears"); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	g = NewGridSearch([]string{"gravity"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), base, "tears"); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}

	g = NewGridSearch([]string{"stiffness"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), base, "tears"); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("missing metric should be reported, got %v", err)
	}
}
