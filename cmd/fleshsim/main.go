package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/fleshsim/internal/config"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	strikes    []string
	runName    string
	svgOut     string
	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	workers    int
	// Monte Carlo
	trials   int
	perTrial int
	minForce float64
	maxForce float64
	radius   float64
	// Tune
	grid   []string
	metric string
	// Output
	energyPlot bool
	benchSteps int

	logger *log.Logger
)

// main registers the commands and runs the live terminal view when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "fleshsim",
		Short:             "deformable flesh simulation",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default $"+config.EnvDataDir+" or .fleshsim)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default $"+config.EnvLogLevel+" or info)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
		cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "jitter seed")
		cmd.Flags().StringSliceVar(&strikes, "strike", nil, "scheduled strike at,x,y,force,radius (repeatable)")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view (click to strike, drag to pull)",
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window view",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted simulation and store it",
		RunE:  runSimulation,
	}
	runFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "run", "run name")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write a snapshot of the final body")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one body parameter",
		RunE:  runSweep,
	}
	runFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "tear_threshold", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.3, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default NumCPU)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "random strikes over many trials",
		RunE:  runMonteCarlo,
	}
	runFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 32, "number of trials")
	monteCarloCmd.Flags().IntVar(&perTrial, "strikes", 3, "strikes per trial")
	monteCarloCmd.Flags().Float64Var(&minForce, "min-force", 1, "weakest strike")
	monteCarloCmd.Flags().Float64Var(&maxForce, "max-force", 60, "strongest strike")
	monteCarloCmd.Flags().Float64Var(&radius, "radius", 40, "strike radius")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search body parameters for the lowest metric",
		RunE:  runTune,
	}
	runFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"stiffness=0.6,0.8,1,1.2"}, "param=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "tears", "metric to minimize")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default NumCPU)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "ringing frequency and settling analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [output]",
		Short: "simulate and write an SVG snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSVG,
	}
	runFlags(svgCmd)
	svgCmd.Flags().BoolVar(&energyPlot, "energy", false, "plot kinetic energy instead of the body")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark body updates for every preset",
		RunE:  benchPresets,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 2000, "steps per preset")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd, listCmd, plotCmd,
		analyzeCmd, exportJSONCmd, exportCSVCmd, svgCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads .env, then resolves the data directory and logger from flags
// falling back to the environment.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = config.Env(config.EnvDataDir, ".fleshsim")
	}
	if logLevel == "" {
		logLevel = config.Env(config.EnvLogLevel, "info")
	}

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "fleshsim",
	})
	return nil
}
