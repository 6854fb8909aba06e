package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/metrics"
	"github.com/san-kum/fleshsim/internal/sim"
	"github.com/san-kum/fleshsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep is a single run in a scenario. The base document is the
// preset, else the config file, else the defaults; the remaining fields
// override it.
type ScenarioStep struct {
	Name     string                `yaml:"name"`
	Preset   string                `yaml:"preset"`
	Config   string                `yaml:"config"`
	Duration float64               `yaml:"duration"`
	Dt       float64               `yaml:"dt"`
	Params   map[string]float64    `yaml:"params"`
	Strikes  []config.StrikeConfig `yaml:"strikes"`
	Drags    []config.DragConfig   `yaml:"drags"`
	SaveAs   string                `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file. Step config paths are
// resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s: scenario has no steps", dynamo.ErrInvalidConfig, path)
	}
	scenario.dir = filepath.Dir(path)

	return &scenario, nil
}

// StepConfig resolves one step into a validated run config.
func (sc *Scenario) StepConfig(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Preset != "":
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownPreset, step.Preset)
		}
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && sc.dir != "" {
			path = filepath.Join(sc.dir, path)
		}
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}

	if err := cfg.ApplyParams(step.Params); err != nil {
		return nil, err
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	cfg.Strikes = append(cfg.Strikes, step.Strikes...)
	cfg.Drags = append(cfg.Drags, step.Drags...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Runner executes scenarios, sweeps and Monte Carlo batches.
type Runner struct {
	logger *log.Logger
	// Store receives steps with save_as set. Nil skips saving.
	Store   *storage.Store
	Workers int
}

func NewRunner(store *storage.Store) *Runner {
	return &Runner{
		logger: log.New(io.Discard),
		Store:  store,
	}
}

func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
	RunID  string
}

// RunScenario executes all steps in order. Results of completed steps are
// returned alongside the first error.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", scenario.Name, i+1)
		}
		r.logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := scenario.StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s := sim.New()
		s.SetLogger(r.logger)
		for _, m := range metrics.Default(cfg.Body.TearThreshold) {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		if step.SaveAs != "" && r.Store != nil {
			id, err := r.Store.Save(step.SaveAs, cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
			r.logger.Info("saved run", "id", id)
		}

		results = append(results, sr)
	}

	return results, nil
}

func finalFrame(res *sim.Result) sim.Frame {
	if res == nil || len(res.Frames) == 0 {
		return sim.Frame{}
	}
	return res.Frames[len(res.Frames)-1]
}
