package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/sim"
)

// GridSearch evaluates every combination of parameter values on a base
// config and keeps the one with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Metrics builds the metric set of each run; it must include the one
	// being minimized.
	Metrics func() []sim.Metric
	Workers int
	Logger  *log.Logger
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Value  float64
}

// Points enumerates the grid in row-major order, last parameter fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		g.enumerate(depth+1, current, out)
	}
	delete(current, g.paramNames[depth])
}

// Search runs every grid point on an ensemble and returns the best point and
// all candidates in grid order. Ties keep the earlier point.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Candidate, []Candidate, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return Candidate{}, nil, fmt.Errorf("%w: grid needs one range per parameter", dynamo.ErrInvalidConfig)
	}

	points := g.Points()
	cfgs := make([]*config.Config, len(points))
	for i, p := range points {
		cfg := base.Clone()
		if err := cfg.ApplyParams(p); err != nil {
			return Candidate{}, nil, err
		}
		if err := cfg.Validate(); err != nil {
			return Candidate{}, nil, fmt.Errorf("grid point %v: %w", p, err)
		}
		cfgs[i] = cfg
	}

	ens := sim.NewEnsemble(g.Metrics)
	ens.Logger = g.Logger
	if g.Workers > 0 {
		ens.Workers = g.Workers
	}
	results, err := ens.Run(ctx, cfgs)
	if err != nil {
		return Candidate{}, nil, err
	}

	best := Candidate{Value: math.Inf(1)}
	all := make([]Candidate, len(results))
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return Candidate{}, nil, fmt.Errorf("%w: metric %q", dynamo.ErrUnknownParam, metricName)
		}
		all[i] = Candidate{Params: points[i], Value: val}
		if val < best.Value {
			best = all[i]
		}
	}

	return best, all, nil
}
