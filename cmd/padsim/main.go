package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/padsim/internal/config"
	"github.com/san-kum/padsim/internal/export"
	"github.com/san-kum/padsim/internal/filter"
	"github.com/san-kum/padsim/internal/metrics"
	"github.com/san-kum/padsim/internal/monitoring"
	"github.com/san-kum/padsim/internal/optim"
	"github.com/san-kum/padsim/internal/storage"
	"github.com/san-kum/padsim/internal/sweep"
	"github.com/san-kum/padsim/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	outDir     string
	dbPath     string
	logLevel   string
	verbose    bool

	angles     []float64
	subjects   []string
	cumulative bool
	threshold  float64
	probMin    float64
	topN       int
	workers    int
	noDB       bool
	noCSV      bool
	showGrid   bool
	outFile    string
	padIDs     []int
	theme      string
	tuneParams []string
	tuneMetric string
	maximize   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "padsim",
		Short:         "bayes filter for electrode pad selection under forearm rotation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := monitoring.Configure(logLevel, verbose)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultCalibrationDir, "calibration data directory")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", config.DefaultOutputDir, "directory for result csv files")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath, "sqlite results database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [subject]",
		Short: "run the filter for one subject",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubject,
	}
	addFilterFlags(runCmd)
	runCmd.Flags().BoolVar(&cumulative, "cumulative", false, "carry the posterior from one angle to the next")
	runCmd.Flags().BoolVar(&noDB, "no-db", false, "do not record the run in the database")
	runCmd.Flags().BoolVar(&noCSV, "no-csv", false, "do not write result csv files")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run every configured subject and angle",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addFilterFlags(sweepCmd)
	sweepCmd.Flags().StringSliceVar(&subjects, "subjects", nil, "subjects to run (default from config)")
	sweepCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "subjects processed in parallel")
	sweepCmd.Flags().BoolVar(&cumulative, "cumulative", false, "carry the posterior from one angle to the next")
	sweepCmd.Flags().BoolVar(&noDB, "no-db", false, "do not record the run in the database")
	sweepCmd.Flags().BoolVar(&noCSV, "no-csv", false, "do not write result csv files")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the steps of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringSliceVar(&subjects, "subjects", nil, "only show these subjects")
	showCmd.Flags().BoolVar(&showGrid, "grid", false, "render the pad grid for every step")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [subject] [pad]",
		Short: "plot the corrected probability of a pad across steps",
		Args:  cobra.ExactArgs(3),
		RunE:  plotPad,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id] [subject]",
		Short: "render trace and per-step charts as PNG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outFile, "output", "o", "plots", "output directory")
	exportPNGCmd.Flags().IntSliceVar(&padIDs, "pads", nil, "pads to trace (default: pads ever ranked)")

	liveCmd := &cobra.Command{
		Use:   "live [subject]",
		Short: "step through angles interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addFilterFlags(liveCmd)
	liveCmd.Flags().BoolVar(&cumulative, "cumulative", false, "carry the posterior from one angle to the next")
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSUBJECTS\tANGLES\tTHRESHOLD\tMODE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%s\n", name, len(p.Subjects), formatAngles(p.Angles), p.Params.MovementThreshold, mode(p.ResetEachAngle))
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search filter parameters against a sweep metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addFilterFlags(tuneCmd)
	tuneCmd.Flags().StringSliceVar(&subjects, "subjects", nil, "subjects to run (default from config)")
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "parameter range as name=v1,v2,... ("+strings.Join(optim.ParamNames(), ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "entropy", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer larger metric values")

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportPNGCmd, liveCmd, tuneCmd, presetsCmd, initCmd)

	err := rootCmd.Execute()
	_ = monitoring.L().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Float64SliceVar(&angles, "angles", nil, "rotation angles in degrees")
	cmd.Flags().Float64Var(&threshold, "threshold", filter.DefaultMovementThreshold, "movement threshold (cm)")
	cmd.Flags().Float64Var(&probMin, "probmin", filter.DefaultProbMin, "minimum probability for a pad to be ranked")
	cmd.Flags().IntVar(&topN, "topn", filter.DefaultTopN, "number of pads to select")
}

// loadConfig resolves defaults, preset, config file and flags, in that order
// of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.CalibrationDir = dataDir
	}
	if flags.Changed("out") {
		cfg.Data.OutputDir = outDir
	}
	if flags.Changed("db") {
		cfg.Data.DBPath = dbPath
	}
	if flags.Changed("angles") {
		cfg.Angles = angles
	}
	if flags.Changed("subjects") {
		cfg.Subjects = subjects
	}
	if flags.Changed("threshold") {
		cfg.Params.MovementThreshold = threshold
	}
	if flags.Changed("probmin") {
		cfg.Params.ProbMin = probMin
	}
	if flags.Changed("topn") {
		cfg.Params.TopN = topN
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("cumulative") {
		cfg.ResetEachAngle = !cumulative
	}
	if !flags.Changed("log-level") && !verbose && cfg.LogLevel != "" {
		if _, err := monitoring.Configure(cfg.LogLevel, false); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// persistence opens the configured writers. The returned cleanup closes the
// database, if one was opened.
func persistence(cfg *config.Config, label string) (storage.Writer, *storage.Run, func(), error) {
	var writers []storage.Writer
	cleanup := func() {}

	if !noCSV {
		writers = append(writers, storage.NewCSVWriter(cfg.Data.OutputDir))
	}

	var run *storage.Run
	if !noDB {
		st, err := storage.Open(cfg.Data.DBPath)
		if err != nil {
			return nil, nil, cleanup, err
		}
		cleanup = func() { st.Close() }

		run, err = st.BeginRun(storage.RunMeta{
			Label:          label,
			Config:         cfg.SimConfig,
			Subjects:       cfg.Subjects,
			Angles:         cfg.Angles,
			ResetEachAngle: cfg.ResetEachAngle,
		})
		if err != nil {
			cleanup()
			return nil, nil, func() {}, err
		}
		writers = append(writers, run)
	}
	return storage.MultiWriter(writers...), run, cleanup, nil
}

func runSubject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Subjects = []string{args[0]}
	cfg.Workers = 1

	writer, run, cleanup, err := persistence(cfg, "run "+args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	runner := sweep.New(cfg, cfg.Source(), writer)
	runner.AddObserver(sweep.ObserverFunc(func(r *filter.SimulationResult) {
		fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s  ·  %.1f°", r.Subject, r.Angle)))
		fmt.Println(viz.RenderGrid(cfg.Grid, r.Corrected(), r.TopIDs()))
		fmt.Println(viz.RenderTopPads(r.TopPads))
		fmt.Println()
	}))

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	if run != nil {
		fmt.Printf("run id: %s\n", run.ID())
	}
	if report.PersistErrors > 0 {
		fmt.Printf("warning: %d steps could not be saved\n", report.PersistErrors)
	}
	fmt.Println("\nmetrics:")
	printMetrics(report.Subjects[0].Metrics)
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
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	label := "sweep"
	if preset != "" {
		label = "sweep " + preset
	}
	writer, run, cleanup, err := persistence(cfg, label)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d subjects x %d angles on %d workers...\n", len(cfg.Subjects), len(cfg.Angles), cfg.Workers)
	start := time.Now()
	report, runErr := sweep.New(cfg, cfg.Source(), writer).Run(ctx)
	if report == nil {
		return runErr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tSTEPS\tENTROPY\tPEAK\tEFFECTIVE\tSHIFT\tSTATUS")
	for _, s := range report.Subjects {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.2f\t%.4f\t%s\n",
			s.Subject,
			len(s.Results),
			s.Metrics["entropy"],
			s.Metrics["peak"],
			s.Metrics["effective_pads"],
			s.Metrics["mass_shift"],
			status,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted %d steps in %v\n", report.Steps, time.Since(start))
	if run != nil {
		fmt.Printf("run id: %s\n", run.ID())
	}
	if report.PersistErrors > 0 {
		fmt.Printf("warning: %d steps could not be saved\n", report.PersistErrors)
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d subjects failed", len(failed), len(report.Subjects))
	}
	return runErr
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.Open(cfg.Data.DBPath)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tSUBJECTS\tANGLES\tSTEPS\tMODE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
			run.ID,
			run.Label,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			len(run.Subjects),
			formatAngles(run.Angles),
			run.Steps,
			mode(run.ResetEachAngle),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	steps, err := st.Steps(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("label: %s\n", meta.Label)
	fmt.Printf("created: %s\n", meta.CreatedAt.Format(time.RFC3339))
	fmt.Printf("threshold: %.2f  probmin: %.2f  topn: %d  mode: %s\n\n",
		meta.Config.Params.MovementThreshold, meta.Config.Params.ProbMin, meta.Config.Params.TopN, mode(meta.ResetEachAngle))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tSTEP\tANGLE\tTOP PADS\tENTROPY\tPEAK")
	for _, s := range steps {
		if len(subjects) > 0 && !contains(subjects, s.Result.Subject) {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\t%.4f\t%.4f\n",
			s.Result.Subject, s.Seq, s.Result.Angle, formatIDs(s.Result.TopIDs()), s.Metrics["entropy"], s.Metrics["peak"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if showGrid {
		for _, s := range steps {
			if len(subjects) > 0 && !contains(subjects, s.Result.Subject) {
				continue
			}
			fmt.Println()
			fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s  ·  %.1f°", s.Result.Subject, s.Result.Angle)))
			fmt.Println(viz.RenderGrid(meta.Config.Grid, s.Result.Corrected(), s.Result.TopIDs()))
		}
	}
	return nil
}

func plotPad(cmd *cobra.Command, args []string) error {
	runID, subject := args[0], args[1]
	pad, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid pad id %q: %w", args[2], err)
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.Load(runID); err != nil {
		return err
	}
	stepAngles, probs, err := st.PadTrace(runID, subject, pad)
	if err != nil {
		return err
	}
	if len(probs) == 0 {
		return fmt.Errorf("no data for subject %s pad %d", subject, pad)
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("subject: %s  pad: %d\n", subject, pad)
	fmt.Printf("angles: %s\n\n", formatAngles(stepAngles))

	graph := viz.TracePlot(probs, fmt.Sprintf("pad %d corrected probability", pad), 10, 80)
	if graph == "" {
		fmt.Printf("single step: %.6f\n", probs[0])
		return nil
	}
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	steps, err := st.Steps(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, steps)
	}
	if err := storage.ExportJSONFile(outFile, meta, steps); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID, subject := args[0], args[1]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	all, err := st.Steps(runID)
	if err != nil {
		return err
	}

	var results []*filter.SimulationResult
	for _, s := range all {
		if s.Result.Subject == subject {
			results = append(results, s.Result)
		}
	}
	if len(results) == 0 {
		return fmt.Errorf("run %s has no steps for subject %s", runID, subject)
	}

	pads := padIDs
	if len(pads) == 0 {
		seen := make(map[int]bool)
		for _, r := range results {
			for _, id := range r.TopIDs() {
				if !seen[id] {
					seen[id] = true
					pads = append(pads, id)
				}
			}
		}
	}

	stepAngles := make([]float64, len(results))
	traces := make(map[int][]float64, len(pads))
	for i, r := range results {
		stepAngles[i] = r.Angle
		for _, id := range pads {
			if id < 1 || id > len(r.Steps) {
				return fmt.Errorf("pad %d outside grid of %d pads", id, len(r.Steps))
			}
			traces[id] = append(traces[id], r.Steps[id-1].CorrectedProb)
		}
	}

	tracePath := filepath.Join(outFile, fmt.Sprintf("trace_%s.png", subject))
	if err := export.TracePNG(tracePath, subject, stepAngles, traces); err != nil && !errors.Is(err, export.ErrNoData) {
		return err
	}
	for i, r := range results {
		path := filepath.Join(outFile, fmt.Sprintf("step_%s_%02d.png", subject, i))
		if err := export.StepBarsPNG(path, r); err != nil {
			return err
		}
	}

	monitoring.L().Info("exported charts", zap.String("run_id", runID), zap.String("subject", subject), zap.Int("steps", len(results)))
	fmt.Printf("exported %d charts to %s\n", len(results)+1, outFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	subject := args[0]
	viz.SetTheme(theme)

	src := cfg.Source()
	n := cfg.Grid.PadCount()
	initial, err := src.InitialProbabilities(subject, n)
	if err != nil {
		return err
	}
	sim, err := filter.New(cfg.SimConfig, subject, initial, filter.NewTableCorrector(src, n))
	if err != nil {
		return err
	}

	stepper := viz.NewStepper(sim, cfg.Angles, !cfg.ResetEachAngle)
	final, err := tea.NewProgram(stepper, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if m, ok := final.(viz.Stepper); ok && m.Current() != nil {
		fmt.Printf("last step %.1f°: top pads %s\n", m.Current().Angle, formatIDs(m.Current().TopIDs()))
		printMetrics(metrics.Summarize(m.Current()))
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, arg := range tuneParams {
		name, values, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid --param %q, want name=v1,v2", arg)
		}
		var vals []float64
		for _, v := range strings.Split(values, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("invalid value in --param %q: %w", arg, err)
			}
			vals = append(vals, f)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	search.Maximize = maximize

	ctx, cancel := signalContext()
	defer cancel()

	best, all, err := search.Search(ctx, cfg, cfg.Source(), tuneMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, c := range all {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = strconv.FormatFloat(c.Params[name], 'g', -1, 64)
		}
		score := fmt.Sprintf("%.6f", c.Score)
		if c.Err != nil {
			score = "failed: " + c.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(row, "\t"), score)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", tuneMetric, best.Score)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best.Params[name])
	}
	return nil
}

func mode(resetEachAngle bool) string {
	if resetEachAngle {
		return "reset"
	}
	return "cumulative"
}

func formatAngles(a []float64) string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
