package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/metrics"
	"github.com/san-kum/fleshsim/internal/sim"
)

// ParameterSweep runs the base config across a range of one parameter
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Tears      int
	Alive      int
	PeakEnergy float64
	// AreaRatio is the final enclosed area over the pressure target.
	AreaRatio float64
	Metrics   map[string]float64
}

// Values returns the parameter value of each sweep step.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps <= 1 {
		return []float64{sw.ParamMin}
	}
	step := (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	out := make([]float64, sw.NumSteps)
	for i := range out {
		out[i] = sw.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep runs every sweep step concurrently on an ensemble.
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Base == nil || sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs a base config and at least one step", dynamo.ErrInvalidConfig)
	}

	values := sweep.Values()
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}
		cfgs[i] = cfg
	}

	threshold := sweep.Base.Body.TearThreshold
	ens := sim.NewEnsemble(func() []sim.Metric { return metrics.Default(threshold) })
	ens.Logger = r.logger
	if r.Workers > 0 {
		ens.Workers = r.Workers
	}

	runs, err := ens.Run(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, res := range runs {
		last := finalFrame(res)
		peak := 0.0
		for _, f := range res.Frames {
			peak = max(peak, f.KineticEnergy)
		}
		ratio := 0.0
		if last.TargetArea > 0 {
			ratio = last.Area / last.TargetArea
		}
		results[i] = SweepResult{
			ParamValue: values[i],
			Tears:      last.Tears,
			Alive:      last.Alive,
			PeakEnergy: peak,
			AreaRatio:  ratio,
			Metrics:    res.Metrics,
		}
		r.logger.Info("sweep", "step", i+1, "of", len(runs), sweep.ParamName, values[i], "tears", last.Tears)
	}

	return results, nil
}
