package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/sim"
)

// MonteCarloConfig defines a batch of runs with random strikes
type MonteCarloConfig struct {
	Base            *config.Config
	NumTrials       int
	StrikesPerTrial int
	MinForce        float64
	MaxForce        float64
	Radius          float64
	// Seed 0 seeds from the clock.
	Seed int64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID     int
	Strikes     []config.StrikeConfig
	Tears       int
	Alive       int
	FinalEnergy float64
	Stable      bool // false when the run diverged
}

// Strikes draws the strike schedule of every trial from one seeded source so
// a batch is reproducible regardless of how trials are scheduled.
func (mc *MonteCarloConfig) Strikes() [][]config.StrikeConfig {
	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := mc.Base.Body
	window := mc.Base.Duration / 2
	out := make([][]config.StrikeConfig, mc.NumTrials)
	for trial := range out {
		strikes := make([]config.StrikeConfig, mc.StrikesPerTrial)
		for i := range strikes {
			// uniform over the rest ellipse
			theta := rng.Float64() * 2 * math.Pi
			r := math.Sqrt(rng.Float64())
			strikes[i] = config.StrikeConfig{
				At:     rng.Float64() * window,
				X:      b.Center.X + b.Radii.X*r*math.Cos(theta),
				Y:      b.Center.Y + b.Radii.Y*r*math.Sin(theta),
				Force:  mc.MinForce + rng.Float64()*(mc.MaxForce-mc.MinForce),
				Radius: mc.Radius,
			}
		}
		out[trial] = strikes
	}
	return out
}

func (mc *MonteCarloConfig) validate() error {
	if mc.Base == nil || mc.NumTrials < 1 || mc.StrikesPerTrial < 0 {
		return fmt.Errorf("%w: monte carlo needs a base config and at least one trial", dynamo.ErrInvalidConfig)
	}
	if mc.MinForce <= 0 || mc.MaxForce < mc.MinForce || mc.Radius <= 0 {
		return fmt.Errorf("%w: monte carlo needs 0 < min force <= max force and radius > 0", dynamo.ErrInvalidConfig)
	}
	return nil
}

// RunMonteCarlo executes the trials in parallel chunks. A diverged trial is
// reported as unstable; any other failure aborts the batch.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	schedules := cfg.Strikes()
	results := make([]MonteCarloResult, cfg.NumTrials)
	errs := make([]error, cfg.NumTrials)

	dynamo.ParallelFor(cfg.NumTrials, 1, func(start, end int) {
		for trial := start; trial < end; trial++ {
			run := cfg.Base.Clone()
			run.Strikes = append(run.Strikes, schedules[trial]...)

			res, err := sim.New().Run(ctx, run)
			mr := MonteCarloResult{
				TrialID: trial,
				Strikes: schedules[trial],
				Stable:  err == nil,
			}
			if err != nil && !errors.Is(err, dynamo.ErrUnstable) {
				errs[trial] = err
				continue
			}
			last := finalFrame(res)
			mr.Tears, mr.Alive, mr.FinalEnergy = last.Tears, last.Alive, last.KineticEnergy
			results[trial] = mr
		}
	})

	for trial, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
	}

	stable, unstable := MonteCarloStats(results)
	r.logger.Info("monte carlo complete", "trials", cfg.NumTrials, "stable", stable, "unstable", unstable)
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// TearStats summarizes tearing across trials.
type TearStats struct {
	MeanTears float64
	MaxTears  int
	// TornFraction is the share of trials with at least one tear.
	TornFraction float64
}

func SummarizeTears(results []MonteCarloResult) TearStats {
	var st TearStats
	if len(results) == 0 {
		return st
	}
	torn, total := 0, 0
	for _, r := range results {
		total += r.Tears
		st.MaxTears = max(st.MaxTears, r.Tears)
		if r.Tears > 0 {
			torn++
		}
	}
	st.MeanTears = float64(total) / float64(len(results))
	st.TornFraction = float64(torn) / float64(len(results))
	return st
}
