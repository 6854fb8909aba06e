package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fleshsim/internal/analysis"
	"github.com/san-kum/fleshsim/internal/automation"
	"github.com/san-kum/fleshsim/internal/config"
	"github.com/san-kum/fleshsim/internal/dynamo"
	"github.com/san-kum/fleshsim/internal/export"
	"github.com/san-kum/fleshsim/internal/gui"
	"github.com/san-kum/fleshsim/internal/metrics"
	"github.com/san-kum/fleshsim/internal/optim"
	"github.com/san-kum/fleshsim/internal/physics"
	"github.com/san-kum/fleshsim/internal/sim"
	"github.com/san-kum/fleshsim/internal/storage"
	"github.com/san-kum/fleshsim/internal/viz"
)

// loadConfig resolves preset, then config file, then defaults, and applies
// the run flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, preset, config.ListPresets())
		}
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Body.Seed = seed
	}
	for _, s := range strikes {
		st, err := parseStrike(s)
		if err != nil {
			return nil, err
		}
		cfg.Strikes = append(cfg.Strikes, st)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseStrike reads "at,x,y,force,radius".
func parseStrike(s string) (config.StrikeConfig, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return config.StrikeConfig{}, fmt.Errorf("%w: strike %q: want at,x,y,force,radius", dynamo.ErrInvalidConfig, s)
	}
	v := make([]float64, 5)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return config.StrikeConfig{}, fmt.Errorf("%w: strike %q: %v", dynamo.ErrInvalidConfig, s, err)
		}
		v[i] = f
	}
	return config.StrikeConfig{At: v[0], X: v[1], Y: v[2], Force: v[3], Radius: v[4]}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the view owns the terminal
	return viz.Run(cfg.BodyParams(), log.New(io.Discard))
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gui.Run(cfg.BodyParams(), logger)
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	s := sim.New()
	s.SetLogger(logger)
	for _, m := range metrics.Default(cfg.Body.TearThreshold) {
		s.AddMetric(m)
	}

	start := time.Now()
	result, err := s.Run(ctx, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(runName, cfg, result)
	if err != nil {
		return err
	}

	if svgOut != "" {
		p := cfg.BodyParams()
		doc := export.BodyToSVG(result.Body, p.Width, p.Height, viz.CurrentTheme)
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
	}

	last := result.Frames[len(result.Frames)-1]
	fmt.Printf("run saved: %s\n", runID)
	fmt.Printf("steps: %d in %v\n", result.StepsTaken, elapsed.Round(time.Millisecond))
	fmt.Printf("tears: %d  alive: %d  triangles: %d\n", last.Tears, last.Alive, last.Triangles)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, m[name])
	}
	w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(st)
	runner.SetLogger(logger)
	results, err := runner.RunScenario(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tDURATION\tTEARS\tALIVE\tSTABILITY\tRUN")
	for _, r := range results {
		last := r.Result.Frames[len(r.Result.Frames)-1]
		fmt.Fprintf(w, "%s\t%.2fs\t%d\t%d\t%.3f\t%s\n",
			r.Name, r.Config.Duration, last.Tears, last.Alive, r.Result.Metrics["stability"], r.RunID)
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(nil)
	runner.SetLogger(logger)
	runner.Workers = workers
	results, err := runner.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTEARS\tALIVE\tPEAK KE\tAREA RATIO\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%d\t%.4g\t%.3f\n", r.ParamValue, r.Tears, r.Alive, r.PeakEnergy, r.AreaRatio)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(nil)
	runner.SetLogger(logger)
	mcSeed := int64(0)
	if cmd.Flags().Changed("seed") {
		mcSeed = seed
	}
	results, err := runner.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:            cfg,
		NumTrials:       trials,
		StrikesPerTrial: perTrial,
		MinForce:        minForce,
		MaxForce:        maxForce,
		Radius:          radius,
		Seed:            mcSeed,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	ts := automation.SummarizeTears(results)
	fmt.Printf("trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)
	fmt.Printf("tears: mean %.2f  max %d  torn trials %.0f%%\n", ts.MeanTears, ts.MaxTears, ts.TornFraction*100)

	tears := make([]float64, len(results))
	for i, r := range results {
		tears[i] = float64(r.Tears)
	}
	if len(tears) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(tears, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("tears per trial")))
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, g := range grid {
		name, values, ok := strings.Cut(g, "=")
		if !ok {
			return fmt.Errorf("%w: grid %q: want param=v1,v2,...", dynamo.ErrInvalidConfig, g)
		}
		var vals []float64
		for _, v := range strings.Split(values, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%w: grid %q: %v", dynamo.ErrInvalidConfig, g, err)
			}
			vals = append(vals, f)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges)
	gs.Metrics = func() []sim.Metric { return metrics.Default(cfg.Body.TearThreshold) }
	gs.Workers = workers
	gs.Logger = logger
	best, all, err := gs.Search(ctx, cfg, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
	for _, c := range all {
		for _, n := range names {
			fmt.Fprintf(w, "%.4g\t", c.Params[n])
		}
		fmt.Fprintf(w, "%.6g\n", c.Value)
	}
	w.Flush()

	fmt.Printf("\nbest %s = %.6g at %v\n", metric, best.Value, best.Params)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tSTEPS\tTEARS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Tears,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func series(frames []sim.Frame, get func(sim.Frame) float64) []float64 {
	r := sim.Result{Frames: frames}
	return r.Series(get)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	plots := []struct {
		caption string
		get     func(sim.Frame) float64
	}{
		{"kinetic energy", func(f sim.Frame) float64 { return f.KineticEnergy }},
		{"enclosed area", func(f sim.Frame) float64 { return f.Area }},
		{"tears", func(f sim.Frame) float64 { return float64(f.Tears) }},
		{"peak stress ratio", func(f sim.Frame) float64 { return f.MaxStressRatio }},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(series(frames, p.get),
			asciigraph.Height(10), asciigraph.Width(70), asciigraph.Caption(p.caption))
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	ke := series(frames, func(f sim.Frame) float64 { return f.KineticEnergy })
	area := series(frames, func(f sim.Frame) float64 { return f.Area })

	freq, power := analysis.DominantFrequency(ke, meta.Dt)
	sum := analysis.Summarize(ke)
	settle := analysis.SettlingTime(ke, meta.Dt, sum.Max*0.01)

	fmt.Printf("run: %s\n\n", meta.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "dominant frequency\t%.3f Hz (power %.3g)\n", freq, power)
	fmt.Fprintf(w, "decay rate\t%.3f 1/s\n", analysis.DecayRate(ke, meta.Dt))
	if settle >= 0 {
		fmt.Fprintf(w, "settling time (1%%)\t%.2fs\n", settle)
	} else {
		fmt.Fprintf(w, "settling time (1%%)\tnot settled\n")
	}
	fmt.Fprintf(w, "kinetic energy\tmean %.4g  max %.4g  final %.4g\n", sum.Mean, sum.Max, sum.Final)
	as := analysis.Summarize(area)
	fmt.Fprintf(w, "area\tmin %.1f  max %.1f  std %.2f\n", as.Min, as.Max, as.Std)
	w.Flush()

	spectrum := analysis.NewSpectrum(ke, meta.Dt)
	if len(spectrum.Power) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum.Power[1:],
			asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("energy spectrum")))
	}

	fmt.Println()
	fmt.Print(analysis.PortraitToASCII(analysis.NewPortrait("area", area, "kinetic energy", ke), 70, 16))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func writeSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	s := sim.New()
	s.SetLogger(logger)
	result, err := s.Run(ctx, cfg)
	if err != nil {
		return err
	}

	var doc string
	if energyPlot {
		doc = export.SeriesToSVG(result.Series(func(f sim.Frame) float64 { return f.KineticEnergy }),
			800, 300, string(viz.CurrentTheme.Accent))
	} else {
		p := cfg.BodyParams()
		doc = export.BodyToSVG(result.Body, p.Width, p.Height, viz.CurrentTheme)
	}
	if doc == "" {
		return dynamo.ErrNoData
	}
	if err := os.WriteFile(args[0], []byte(doc), 0644); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRINGS\tSTIFFNESS\tTEAR\tPRESSURE\tSTRIKES")
	for _, name := range config.ListPresets() {
		b := config.Presets[name].Body
		fmt.Fprintf(w, "%s\t%v\t%.2f\t%.2f\t%.2f\t%d\n",
			name, b.RingPoints, b.Stiffness, b.TearThreshold, b.Pressure, len(config.Presets[name].Strikes))
	}
	return w.Flush()
}

func benchPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPARTICLES\tSPRINGS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		body := physics.NewBody()
		body.Build(cfg.BodyParams())
		p := body.Params()
		body.Strike(p.CenterX, p.CenterY, 2, 50)

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			body.Update(cfg.Dt)
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.0f\n",
			name, len(body.Particles()), len(body.ActiveSprings()), benchSteps,
			elapsed.Round(time.Microsecond), float64(benchSteps)/elapsed.Seconds())
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
