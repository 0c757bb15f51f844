package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/contnet/internal/config"
	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/params"
	"github.com/san-kum/contnet/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var _ pflag.Value = (*ode.Method)(nil)

var (
	dataDir   string
	storeKind string
	logLevel  string

	configFile string
	preset     string
	scheme     = ode.MethodRK4
	nStep      int
	seed       int64
	basis      string
	nodes      int
	initState  []float64
	rate       float64
	omega      float64

	numRuns int
	workers int

	components []int
	xAxis      int
	yAxis      int
	width      int
	height     int

	steps []int
	delta float64

	frameRate int
	theme     string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepCount int

	gridAxes []string
	metric   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "contnet",
		Short:         "continuous-depth network integration lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", config.DefaultStore, "run store (fs, memory, sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model over [0, 1] and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addModelFlags(runCmd.Flags())
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs with consecutive seeds")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "integrate a model and replay it in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd.Flags())
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "phosphor", "color theme (phosphor, paper)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	replayCmd.Flags().StringVar(&theme, "theme", "phosphor", "color theme (phosphor, paper)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state components of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntSliceVar(&components, "components", nil, "flat component indices to plot (default: first 6)")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two state components",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "component for the x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "component for the y-axis")
	phaseCmd.Flags().IntVar(&width, "width", 60, "plot width")
	phaseCmd.Flags().IntVar(&height, "height", 20, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a component against time, or a phase portrait, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&xAxis, "x-axis", -1, "component for the x-axis (-1 = time)")
	exportSVGCmd.Flags().IntVar(&yAxis, "y-axis", 0, "component for the y-axis")
	exportSVGCmd.Flags().IntVar(&width, "width", 640, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 480, "image height")

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "list the integration schemes",
		Args:  cobra.NoArgs,
		RunE:  listSchemes,
	}

	convergeCmd := &cobra.Command{
		Use:   "converge [model] [scheme...]",
		Short: "measure the order of accuracy of schemes against the exact solution",
		Args:  cobra.MinimumNArgs(1),
		RunE:  convergeModel,
	}
	addModelFlags(convergeCmd.Flags())
	convergeCmd.Flags().IntSliceVar(&steps, "steps", []int{8, 16, 32, 64}, "step counts")
	convergeCmd.Flags().IntVar(&width, "width", 60, "plot width")
	convergeCmd.Flags().IntVar(&height, "height", 10, "plot height")

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity [model]",
		Short: "log growth of a perturbation of the initial state",
		Args:  cobra.ExactArgs(1),
		RunE:  sensitivityModel,
	}
	addModelFlags(sensitivityCmd.Flags())
	sensitivityCmd.Flags().Float64Var(&delta, "delta", 1e-6, "perturbation of the first component")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of runs from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one parameter over a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd.Flags())
	sweepCmd.Flags().StringVar(&sweepParam, "param", "rate", "parameter to sweep ("+strings.Join(config.Tunable, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2, "last value")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search for the settings that minimize a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	addModelFlags(tuneCmd.Flags())
	tuneCmd.Flags().StringArrayVar(&gridAxes, "grid", []string{"n_step=8,16,32"}, "grid axis as name=v1,v2,...; repeatable")
	tuneCmd.Flags().StringVar(&metric, "metric", "global_error", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.PresetModels()
			if len(args) == 1 {
				models = args
			}
			for _, m := range models {
				names := config.ListPresets(m)
				if len(names) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("%s: %s\n", m, strings.Join(names, ", "))
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, replayCmd, listCmd, plotCmd, phaseCmd, exportCmd, exportCSVCmd, exportSVGCmd, schemesCmd, convergeCmd, sensitivityCmd, scenarioCmd, sweepCmd, tuneCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addModelFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
	fs.Var(&scheme, "scheme", "integration scheme ("+strings.Join(ode.Names(), ", ")+")")
	fs.IntVar(&nStep, "n-step", config.DefaultNStep, "number of uniform steps over [0, 1]")
	fs.Int64Var(&seed, "seed", 42, "random seed")
	fs.StringVar(&basis, "basis", string(params.KindConstant), "parameter basis (constant, linear)")
	fs.IntVar(&nodes, "nodes", config.DefaultNodes, "number of parameter nodes")
	fs.Float64SliceVar(&initState, "init", nil, "initial state, flattened")
	fs.Float64Var(&rate, "rate", config.DefaultRate, "decay rate")
	fs.Float64Var(&omega, "omega", config.DefaultOmega, "oscillator angular frequency")
}

func newLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var allow level.Option
	switch strings.ToLower(logLevel) {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowWarn()
	}
	return level.NewFilter(logger, allow)
}

// loadConfig resolves defaults, then a preset, then a config file, then
// any flag set on the command line.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model
	switch model {
	case "oscillator":
		cfg.InitState = []float64{1, 0}
	case "dense":
		cfg.InitState = nil
	}

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Model = model
	}

	flags := cmd.Flags()
	if flags.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if flags.Changed("n-step") {
		cfg.NStep = nStep
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("basis") {
		k, err := params.ParseKind(basis)
		if err != nil {
			return nil, err
		}
		cfg.Basis = k
	}
	if flags.Changed("nodes") {
		cfg.Nodes = nodes
	}
	if flags.Changed("init") {
		cfg.InitState = initState
		cfg.Shape = nil
	}
	if flags.Changed("rate") {
		cfg.ModelParams.Rate = rate
	}
	if flags.Changed("omega") {
		cfg.ModelParams.Omega = omega
	}
	if root := cmd.Root().PersistentFlags(); root.Changed("store") || cfg.Store.Kind == "" {
		cfg.Store.Kind = storeKind
	}
	if root := cmd.Root().PersistentFlags(); root.Changed("data") || cfg.Store.Path == "" {
		cfg.Store.Path = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, kind, path string) (storage.Store, error) {
	st, err := storage.NewStore(kind, path)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// openDefaultStore opens the store named by the persistent flags.
func openDefaultStore(ctx context.Context) (storage.Store, error) {
	return openStore(ctx, storeKind, dataDir)
}
