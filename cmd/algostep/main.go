package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/algostep/internal/automation"
	"github.com/san-kum/algostep/internal/config"
	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/experiment"
	"github.com/san-kum/algostep/internal/export"
	"github.com/san-kum/algostep/internal/log"
	"github.com/san-kum/algostep/internal/metrics"
	"github.com/san-kum/algostep/internal/store"
	"github.com/san-kum/algostep/internal/viz"
)

var (
	configFile string
	preset     string
	seed       int64
	speed      int
	logLevel   string
	logFormat  string
	logFile    string

	svgPath     string
	chartPath   string
	outPath     string
	traceFormat string
	parallel    int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trialCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "algostep",
		Short:         "step-by-step algorithm visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(log.Options{Level: logLevel, Format: logFormat, Path: logFile})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Destroy()
		},
		// Default to the live view when no command is given.
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 1, "random seed for generated input")
	pf.IntVar(&speed, "speed", config.DefaultSpeed, "playback speed (1-20)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	pf.StringVar(&logFile, "log-file", "", "append logs to a file")
	rootCmd.MarkFlagsMutuallyExclusive("config", "preset")

	liveCmd := &cobra.Command{
		Use:   "live [algorithm]",
		Short: "watch an algorithm run in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run an algorithm headless and print its result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final snapshot as SVG")
	runCmd.Flags().StringVar(&chartPath, "chart", "", "write the charted metric as an SVG line chart")

	traceCmd := &cobra.Command{
		Use:   "trace [algorithm]",
		Short: "record every frame of a run without delays",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	traceCmd.Flags().StringVar(&traceFormat, "format", "json", "trace format (json or csv)")

	inspectCmd := &cobra.Command{
		Use:   "inspect [trace.json]",
		Short: "summarize a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectTrace,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run every algorithm concurrently without delays",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&parallel, "parallel", 4, "concurrent runs (0 for unbounded)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [algorithm]",
		Short: "run one algorithm across a parameter range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 6, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 4, "concurrent runs (0 for unbounded)")

	trialsCmd := &cobra.Command{
		Use:   "trials [algorithm]",
		Short: "run one algorithm across consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVarP(&trialCount, "count", "n", 20, "number of seeds")
	trialsCmd.Flags().IntVar(&parallel, "parallel", 4, "concurrent runs (0 for unbounded)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := experiment.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ALGORITHM\tFAMILY\tDESCRIPTION")
			for _, kind := range r.List() {
				fam, _ := r.Family(kind)
				fmt.Fprintf(w, "%s\t%s\t%s\n", kind, fam, r.Summary(kind))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list available presets for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for algorithm: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, traceCmd, inspectCmd, benchCmd, scenarioCmd, sweepCmd, trialsCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for a command: defaults, then a
// preset or config file, then any flags set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Algorithm = args[0]
	}

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Algorithm = args[0]
		}
		cfg = loaded
	case preset != "":
		p := config.GetPreset(cfg.Algorithm, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Algorithm))
		}
		cfg = p
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if configFile != "" && !cmd.Flags().Changed("log-level") && cfg.Log.Level != "" {
		log.DefaultLogger.SetLevel(cfg.Log.Level)
	}
	return cfg, nil
}

// newScheduler builds the scheduler for cfg. Headless commands pass
// instant to drop every delay.
func newScheduler(exp *experiment.Experiment, instant bool) (*engine.Scheduler, error) {
	ecfg := exp.EngineConfig()
	if instant {
		ecfg.BaseDelay = 0
	}
	return engine.New(ecfg, engine.WithLogger(log.Entry()))
}

// instantInput generates input and shortens the path-trace delay.
func instantInput(exp *experiment.Experiment, kind string) (experiment.Input, error) {
	in, err := exp.InputFor(kind)
	if err != nil {
		return in, err
	}
	in.Search.PathDelay = time.Microsecond
	return in, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, nil)
	if _, err := exp.Registry().Family(cfg.Algorithm); err != nil {
		return err
	}
	sched, err := newScheduler(exp, false)
	if err != nil {
		return err
	}
	vis := experiment.NewVisualizer(sched, exp.Registry(), log.Entry())
	return viz.Run(viz.NewModel(exp, vis, cfg.Algorithm, cfg.Speed), tea.WithAltScreen())
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg, nil)
	fam, err := exp.Registry().Family(cfg.Algorithm)
	if err != nil {
		return err
	}
	sched, err := newScheduler(exp, false)
	if err != nil {
		return err
	}
	in, err := exp.Input()
	if err != nil {
		return err
	}

	rec := engine.NewRecorder()
	var payload any
	vis := experiment.NewVisualizer(sched, exp.Registry(), log.Entry())
	fmt.Printf("running %s at speed %d...\n", cfg.Algorithm, cfg.Speed)
	start := time.Now()
	h, err := vis.Start(ctx, cfg.Algorithm, in, experiment.Options{
		Sink:       rec,
		Controller: control.NewFixed(cfg.Speed),
		OnComplete: func(p any) { payload = p },
	})
	if err != nil {
		return err
	}
	h.Wait()
	elapsed := time.Since(start)

	frames := rec.Frames()
	names, series := replay(string(fam), frames)

	fmt.Printf("finished in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", h.ID())
	fmt.Printf("reason: %s\n", h.Reason())
	fmt.Printf("steps: %d\n", h.Steps())
	if h.Err() != nil {
		fmt.Printf("error: %v\n", h.Err())
	}
	fmt.Printf("result: %s\n", viz.Summary(payload))
	fmt.Println("\nmetrics:")
	for _, name := range names {
		s := series[name]
		if len(s) > 0 {
			fmt.Printf("  %s: %.6g\n", name, s[len(s)-1])
		}
	}

	chart := chartMetric(fam)
	if data := series[chart]; len(data) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(chart+" per step"),
		))
	}

	if chartPath != "" {
		if err := os.WriteFile(chartPath, []byte(export.SeriesToSVG(series[chart], 640, 240, "#00ccff")), 0o644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", chartPath)
	}

	if svgPath != "" && len(frames) > 0 {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.Render(f, export.Scene{Snapshot: frames[len(frames)-1].Snapshot, Points: in.Points}); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}
	return nil
}

// replay feeds recorded frames through fresh metrics, keeping each metric's
// value after every frame.
func replay(family string, frames []engine.Frame) ([]string, map[string][]float64) {
	set := metrics.NewSet(metrics.ForAlgorithm(family)...)
	series := make(map[string][]float64)
	for _, f := range frames {
		set.Publish(f)
		for name, v := range set.Values() {
			series[name] = append(series[name], v)
		}
	}
	return set.Names(), series
}

func chartMetric(fam experiment.Family) string {
	switch fam {
	case experiment.FamilySorting:
		return "writes"
	case experiment.FamilyGraph:
		return "visited"
	}
	return "mse"
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, nil)
	fam, err := exp.Registry().Family(cfg.Algorithm)
	if err != nil {
		return err
	}
	sched, err := newScheduler(exp, true)
	if err != nil {
		return err
	}
	in, err := instantInput(exp, cfg.Algorithm)
	if err != nil {
		return err
	}
	d, err := exp.Registry().Build(cfg.Algorithm, in)
	if err != nil {
		return err
	}

	rec := engine.NewRecorder()
	set := metrics.NewSet(metrics.ForAlgorithm(string(fam))...)
	var payload any
	h := sched.Start(context.Background(), d, engine.Tee(rec, set), control.NewFixed(control.MaxSpeed), func(p any) { payload = p })
	h.Wait()

	trace, err := store.NewTrace(h, cfg.Seed, rec.Frames(), payload, set.Values())
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	switch traceFormat {
	case "json":
		return store.WriteJSON(out, trace)
	case "csv":
		return store.WriteCSV(out, trace)
	}
	return fmt.Errorf("unknown trace format: %s", traceFormat)
}

func inspectTrace(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	trace, err := store.ReadJSON(f)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", trace.Run)
	fmt.Printf("algorithm: %s\n", trace.Algorithm)
	fmt.Printf("reason: %s\n", trace.Reason)
	fmt.Printf("seed: %d\n", trace.Seed)
	fmt.Printf("frames: %d of %d steps\n", len(trace.Frames), trace.Steps)
	if len(trace.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, name := range slices.Sorted(maps.Keys(trace.Metrics)) {
			fmt.Printf("  %s: %.6g\n", name, trace.Metrics[name])
		}
	}

	phases := make(map[string]int)
	gaps := make([]float64, 0, len(trace.Frames))
	for i, fr := range trace.Frames {
		phases[fr.Phase]++
		if i > 0 {
			gaps = append(gaps, fr.OffsetMS-trace.Frames[i-1].OffsetMS)
		}
	}
	fmt.Println("\nphases:")
	for _, p := range slices.Sorted(maps.Keys(phases)) {
		fmt.Printf("  %s: %d\n", p, phases[p])
	}
	if len(gaps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(gaps,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("ms between frames"),
		))
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, nil)
	sched, err := newScheduler(exp, true)
	if err != nil {
		return err
	}

	kinds := exp.Registry().List()
	jobs := make([]experiment.Job, len(kinds))
	for i, kind := range kinds {
		in, err := instantInput(exp, kind)
		if err != nil {
			return err
		}
		jobs[i] = experiment.Job{Kind: kind, Input: in}
	}

	fmt.Printf("benchmarking %d algorithms\n\n", len(jobs))
	outcomes, err := experiment.RunBatch(context.Background(), sched, exp.Registry(), jobs, parallel)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tREASON\tSTEPS\tTIME\tSTEPS/SEC")
	for _, o := range outcomes {
		rate := 0.0
		if o.Elapsed > 0 {
			rate = float64(o.Steps) / o.Elapsed.Seconds()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%.0f\n", o.Kind, o.Reason, o.Steps, o.Elapsed.Round(time.Microsecond), rate)
	}
	return w.Flush()
}

func headlessRunner() (*automation.Runner, error) {
	exp := experiment.New(config.DefaultConfig(), nil)
	sched, err := newScheduler(exp, true)
	if err != nil {
		return nil, err
	}
	return &automation.Runner{Scheduler: sched, Registry: exp.Registry(), Log: log.Entry(), Out: os.Stdout}, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	r, err := headlessRunner()
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, runErr := r.RunScenario(context.Background(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nALGORITHM\tREASON\tSTEPS\tRESULT")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", res.Algorithm, res.Reason, res.Steps, viz.Summary(res.Payload))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := headlessRunner()
	if err != nil {
		return err
	}
	results, err := r.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Parallel:  parallel,
	})
	if err != nil {
		return err
	}

	var names []string
	if len(results) > 0 {
		names = slices.Sorted(maps.Keys(results[0].Metrics))
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "\n", sweepParam, "\tREASON\tSTEPS")
	for _, n := range names {
		fmt.Fprint(w, "\t", n)
	}
	fmt.Fprintln(w)
	for _, res := range results {
		fmt.Fprintf(w, "%.4g\t%s\t%d", res.ParamValue, res.Reason, res.Steps)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4g", res.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := headlessRunner()
	if err != nil {
		return err
	}
	stats, err := r.RunTrials(context.Background(), &automation.Trials{Base: cfg, NumTrials: trialCount, Parallel: parallel})
	if err != nil {
		return err
	}

	fmt.Printf("\n%s over %d seeds from %d\n", cfg.Algorithm, trialCount, cfg.Seed)
	fmt.Printf("steps: min %d, max %d, mean %.1f\n", stats.MinSteps, stats.MaxSteps, stats.AvgSteps)
	for _, reason := range slices.Sorted(maps.Keys(stats.Reasons)) {
		fmt.Printf("  %s: %d\n", reason, stats.Reasons[reason])
	}
	return nil
}
