package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/san-kum/contnet/internal/analysis"
	"github.com/san-kum/contnet/internal/experiment"
	"github.com/san-kum/contnet/internal/export"
	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/storage"
	"github.com/san-kum/contnet/internal/viz"
	"github.com/spf13/cobra"
)

func runModel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	var results []*experiment.Result
	if numRuns > 1 {
		ens := experiment.NewEnsemble(cfg, numRuns, cfg.Seed, experiment.WithLogger(logger))
		ens.SetWorkers(workers)
		results, err = ens.Run(ctx)
	} else {
		var res *experiment.Result
		res, err = experiment.New(cfg, experiment.WithLogger(logger)).Run(ctx)
		results = []*experiment.Result{res}
	}
	if err != nil {
		return err
	}

	fmt.Printf("model: %s  scheme: %s  n_step: %d  basis: %s/%d\n", cfg.Model, cfg.Scheme, cfg.NStep, cfg.Basis, cfg.Nodes)
	for i, res := range results {
		runCfg := cfg.Clone()
		runCfg.Seed = cfg.Seed + int64(i)

		id, err := st.Save(ctx, experiment.Metadata(runCfg, res), res.Trajectory())
		if err != nil {
			return err
		}
		level.Debug(logger).Log("subsys", "store", "msg", "saved run", "id", id)

		fmt.Printf("\nrun id: %s\n", id)
		fmt.Printf("completed in %v, final shape %v\n", res.Duration, res.Final().Shape())
		printMetrics(res.Metrics)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	res, err := experiment.New(cfg, experiment.WithLogger(newLogger())).Run(cmd.Context())
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s, n=%d)", cfg.Model, cfg.Scheme, cfg.NStep)
	return replay(title, res.Trajectory(), res.Metrics)
}

func replayRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openDefaultStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(ctx, args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(ctx, args[0])
	if err != nil {
		return err
	}
	return replay(meta.ID, traj, meta.Metrics)
}

func replay(title string, traj storage.Trajectory, metrics map[string]float64) error {
	r := viz.NewReplay(title, traj, metrics, viz.GetTheme(theme))
	r.SetFrameRate(frameRate)
	_, err := tea.NewProgram(r, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openDefaultStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tCREATED\tSCHEME\tN_STEP\tBASIS\tSHAPE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s/%d\t%v\n",
			run.ID,
			run.Model,
			humanize.Time(run.Timestamp),
			run.Scheme,
			run.NStep,
			run.Basis,
			run.Nodes,
			run.Shape,
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, id string) (*storage.RunMetadata, storage.Trajectory, error) {
	ctx := cmd.Context()
	st, err := openDefaultStore(ctx)
	if err != nil {
		return nil, storage.Trajectory{}, err
	}
	defer st.Close()

	meta, err := st.Load(ctx, id)
	if err != nil {
		return nil, storage.Trajectory{}, err
	}
	traj, err := st.LoadTrajectory(ctx, id)
	if err != nil {
		return nil, storage.Trajectory{}, err
	}
	return meta, traj, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(traj.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s  scheme: %s\n", meta.Model, meta.Scheme)
	fmt.Printf("samples: %d\n\n", len(traj.States))

	idxs := components
	if len(idxs) == 0 {
		for i := 0; i < min(traj.States[0].Len(), 6); i++ {
			idxs = append(idxs, i)
		}
	}
	for _, idx := range idxs {
		graph, err := viz.PlotComponent(traj.States, idx, width, height)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	fmt.Println(viz.PlotNorms(traj.States, width, height))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	pp, err := analysis.NewPhasePortrait(traj.States, xAxis, yAxis)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  (x%d vs x%d)\n\n", meta.ID, xAxis, yAxis)
	fmt.Println(pp.ASCII(width, height))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, traj)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	var pts []analysis.Point
	if xAxis < 0 {
		ys, err := viz.Component(traj.States, yAxis)
		if err != nil {
			return err
		}
		pts = export.TimeSeries(traj.Times, ys)
	} else {
		pp, err := analysis.NewPhasePortrait(traj.States, xAxis, yAxis)
		if err != nil {
			return err
		}
		pts = pp.Points
	}

	opts := export.DefaultSVGOptions()
	opts.Width, opts.Height = width, height
	return export.WriteSVG(os.Stdout, pts, opts)
}

func listSchemes(cmd *cobra.Command, args []string) error {
	infos := make([]ode.MethodInfo, 0, len(ode.Methods()))
	for _, m := range ode.Methods() {
		infos = append(infos, m.Info())
	}
	fmt.Println(viz.SchemeTable(viz.NewStyles(viz.GetTheme("paper")), infos))
	return nil
}

func convergeModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	methods := ode.Methods()
	if len(args) > 1 {
		methods = nil
		for _, name := range args[1:] {
			m, err := ode.ParseMethod(name)
			if err != nil {
				return err
			}
			methods = append(methods, m)
		}
	}

	results, err := experiment.New(cfg, experiment.WithLogger(newLogger())).Converge(methods, steps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tEXPECTED\tOBSERVED\tERRORS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.3f\t", r.Method, r.Method.Info().Order, r.Order)
		for i, e := range r.Errors {
			fmt.Fprintf(w, "n=%d:%.3e ", r.Steps[i], e)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotConvergence(results, width, height))
	return nil
}

func sensitivityModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	lambda, err := experiment.New(cfg, experiment.WithLogger(newLogger())).Sensitivity(delta)
	if err != nil {
		return err
	}

	fmt.Printf("model: %s  scheme: %s  n_step: %d\n", cfg.Model, cfg.Scheme, cfg.NStep)
	fmt.Printf("ln(|dx(1)|/|dx(0)|): %.6f\n", lambda)
	switch {
	case lambda > 0:
		fmt.Println("the flow separates nearby states")
	case lambda < 0:
		fmt.Println("the flow contracts nearby states")
	}
	return nil
}
