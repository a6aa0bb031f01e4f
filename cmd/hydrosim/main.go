package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/hydrosim/internal/config"
	"github.com/san-kum/hydrosim/internal/experiment"
	"github.com/san-kum/hydrosim/internal/gui"
	"github.com/san-kum/hydrosim/internal/optim"
	"github.com/san-kum/hydrosim/internal/scenario"
	"github.com/san-kum/hydrosim/internal/sim"
	"github.com/san-kum/hydrosim/internal/storage"
	"github.com/san-kum/hydrosim/internal/term"
	"github.com/san-kum/hydrosim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string

	// logHandle is the open --log-file, closed by closeLog.
	logHandle *os.File

	frames       int
	controller   string
	applied      float64
	scenarioFile string
	settle       int
	noSave       bool
	progress     int
	jsonOut      string
	shader       string

	sound bool

	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	xColumn string
	yColumn string

	svgOut    string
	svgWidth  int
	svgHeight int

	snapFrames    int
	snapSize      int
	untilBalanced bool

	tuneKp []float64
	tuneKi []float64
	tuneKd []float64
)

// interactive commands own the terminal, so their logs never reach stderr.
var interactive = map[string]bool{
	"hydrosim": true,
	"live":     true,
	"pick":     true,
	"term":     true,
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "hydrosim",
		Short:         "communicating vessels and hydraulic press simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(interactive[cmd.Name()])
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			return viz.Run(cmd.Context(), name, cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".hydrosim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation headless and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	runCmd.Flags().StringVar(&controller, "controller", "none", "controller (none, manual, pid)")
	runCmd.Flags().Float64Var(&applied, "applied", 0, "initial applied pressure")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	runCmd.Flags().IntVar(&settle, "settle", 0, "stop after this many balanced frames (0 = never)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without saving the run")
	runCmd.Flags().IntVar(&progress, "progress", 0, "print a status line every N frames (0 = off)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			return viz.Run(cmd.Context(), name, cfg)
		},
	}

	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "choose and tweak a preset, then run it live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(cmd.Context())
		},
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "raw terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			return term.Main(cmd.Context(), name, cfg, sound)
		},
	}
	termCmd.Flags().BoolVar(&sound, "sound", false, "play a tone that follows the flow")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if shader != "" {
				cfg.Shader = shader
			}
			return gui.Run(cmd.Context(), name, cfg)
		},
	}
	guiCmd.Flags().StringVar(&shader, "shader", "", "fragment shader for the piston (default: "+gui.DefaultShader+" next to the binary)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "scatter plot of two frame columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xColumn, "x", "big_height", "column for x-axis")
	phaseCmd.Flags().StringVar(&yColumn, "y", "small_pressure", "column for y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run heights to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the apparatus after some frames to SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 0, "frames to step before rendering")
	snapshotCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().IntVar(&snapSize, "size", 600, "image width and height")
	snapshotCmd.Flags().BoolVar(&untilBalanced, "until-balanced", false, "stop at the first balanced frame")

	sweepCmd := &cobra.Command{
		Use:       "sweep [param]",
		Short:     "run one config across a range of a parameter",
		Args:      cobra.ExactArgs(1),
		ValidArgs: scenario.SweepParams,
		RunE:      runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search autopilot gains",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	tuneCmd.Flags().Float64SliceVar(&tuneKp, "kp", []float64{0.2, 0.5, 0.8, 1.2}, "kp values")
	tuneCmd.Flags().Float64SliceVar(&tuneKi, "ki", []float64{0, 0.05}, "ki values")
	tuneCmd.Flags().Float64SliceVar(&tuneKd, "kd", []float64{0, 0.1}, "kd values")
	tuneCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per candidate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved config to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "hydrosim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			_, cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	aboutCmd := &cobra.Command{
		Use:   "about",
		Short: "explain what the simulation shows",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(viz.Intro)
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, pickCmd, termCmd, guiCmd, listCmd, plotCmd, phaseCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, snapshotCmd, sweepCmd, tuneCmd, presetsCmd, configCmd, aboutCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(quiet bool) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	log.SetLevel(level)
	log.SetReportTimestamp(false)

	var out io.Writer = os.Stderr
	if quiet {
		out = io.Discard
	}
	if logFile != "" {
		closeLog()
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logHandle = f
		out = f
		log.SetReportTimestamp(true)
	}
	log.SetOutput(out)
	return nil
}

// closeLog closes the log file, if any, and sends logs back to stderr.
func closeLog() {
	if logHandle == nil {
		return
	}
	log.SetOutput(os.Stderr)
	if err := logHandle.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close log file:", err)
	}
	logHandle = nil
}

// resolveConfig layers the config: defaults, then --preset, then --config.
func resolveConfig() (string, *config.Config, error) {
	name := "classic"
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if preset == "" {
			name = "custom"
		}
	}

	log.Debug("config resolved", "name", name, "controller", cfg.Controller, "frames", cfg.Frames)
	return name, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name, cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	// CLI flags override file values only when set
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("applied") {
		cfg.Applied = applied
	}

	registry := experiment.NewRegistry()

	var (
		exp    *experiment.Experiment
		result *sim.Result
	)

	start := time.Now()
	if scenarioFile != "" {
		s, err := scenario.LoadScenario(scenarioFile)
		if err != nil {
			return err
		}
		exp, result, err = scenario.Run(cmd.Context(), s, cfg, registry)
		if err != nil {
			return err
		}
	} else {
		exp = experiment.New(name, cfg)
		if err := exp.SetupFrom(registry); err != nil {
			return err
		}
		if progress > 0 {
			exp.GetSimulator().AddObserver(&sim.Progress{W: os.Stdout, Total: cfg.Frames, Every: progress})
		}
		fmt.Printf("running %s simulation...\n", name)
		result, err = exp.Run(cmd.Context(), settle)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Info(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	final := result.Final()
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Printf("final: big %.4f  small %.4f  applied %.4f  (%s)\n",
		final.BigHeight, final.SmallHeight, final.Applied, final.Outcome)

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	_, cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}

	sweep := &scenario.ParameterSweep{
		Param:    args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}

	results, err := scenario.RunSweep(cmd.Context(), sweep, cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBIG\tSMALL\tAPPLIED\tBALANCED\tLEVEL_GAP\n", sweep.Param)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.2f\t%.6f\n",
			r.Value,
			r.Final.BigHeight,
			r.Final.SmallHeight,
			r.Final.Applied,
			r.Metrics["balanced_ratio"],
			r.Metrics["level_gap"],
		)
	}
	return w.Flush()
}

func tuneGains(cmd *cobra.Command, args []string) error {
	_, cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}

	fmt.Printf("tuning %d candidates toward small height %.3f...\n",
		len(tuneKp)*len(tuneKi)*len(tuneKd), cfg.ControllerParams.Target)

	params, best, err := optim.TunePID(cmd.Context(), cfg, tuneKp, tuneKi, tuneKd)
	if err != nil {
		return err
	}

	fmt.Printf("kp: %.4f  ki: %.4f  kd: %.4f\n", params["kp"], params["ki"], params["kd"])
	fmt.Printf("tracking error: %.6f\n", best)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBIG\tSMALL\tAPPLIED\tDENSITY\tGRAVITY\tCTRL")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			name,
			p.Big.Height,
			p.Small.Height,
			p.Applied,
			p.Density,
			p.Gravity,
			p.Controller,
		)
	}
	return w.Flush()
}
