package sim

import (
	"context"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fleshsim/internal/config"
)

// Ensemble runs independent bodies concurrently, one goroutine per run.
type Ensemble struct {
	// Metrics builds a fresh metric set for every run; metrics are stateful.
	Metrics func() []Metric
	Workers int
	Logger  *log.Logger
}

func NewEnsemble(metrics func() []Metric) *Ensemble {
	return &Ensemble{Metrics: metrics, Workers: runtime.NumCPU()}
}

// Run returns results in the order of cfgs. The first failing run cancels
// the rest.
func (e *Ensemble) Run(ctx context.Context, cfgs []*config.Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			s := New()
			s.SetLogger(e.Logger)
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
