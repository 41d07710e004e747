package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spheresim/internal/automation"
	"github.com/san-kum/spheresim/internal/config"
	"github.com/san-kum/spheresim/internal/experiment"
	"github.com/san-kum/spheresim/internal/export"
	"github.com/san-kum/spheresim/internal/physics"
	"github.com/san-kum/spheresim/internal/sim"
	"github.com/san-kum/spheresim/internal/storage"
	"github.com/san-kum/spheresim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	dt         float64
	duration   float64
	gravity    float32
	seed       int64
	numBodies  int
	paused     bool
	runs       int
	outFile    string
	svgWidth   int
	svgHeight  int
	finalOnly  bool
	plotBody   int
	benchTicks int
	sweepMin   float32
	sweepMax   float32
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spheresim",
		Short: "real-time sphere gravity and collision simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spheresim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and position of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", 0, "body index to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a recorded run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	exportSVGCmd.Flags().BoolVar(&finalOnly, "final", false, "draw only the final frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure ticks per second for growing body counts",
		Args:  cobra.NoArgs,
		RunE:  benchEngine,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 600, "ticks per body count")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a preset across a range of gravity constants",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float32Var(&sweepMin, "min", 0, "smallest gravity constant")
	sweepCmd.Flags().Float32Var(&sweepMax, "max", 2, "largest gravity constant")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep points")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "duration override")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd, scriptCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml or toml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float32Var(&gravity, "g", 1, "gravity constant")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&numBodies, "bodies", 0, "number of random bodies")
	cmd.Flags().BoolVar(&paused, "paused", false, "start paused")
}

// loadScenario resolves the preset argument, then the config file, then
// any flags set on the command line, in that order.
func loadScenario(cmd *cobra.Command, args []string) (*config.Scenario, error) {
	s := config.DefaultScenario()
	if len(args) == 1 {
		s = config.GetPreset(args[0])
		if s == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		s = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		s.Dt = dt
	}
	if flags.Changed("time") {
		s.Duration = duration
	}
	if flags.Changed("g") {
		s.GravityConstant = gravity
	}
	if flags.Changed("seed") {
		s.Seed = seed
	}
	if flags.Changed("bodies") {
		if s.Random.MaxMass == 0 && s.Random.MaxRadius == 0 {
			s.Random = config.DefaultRandom(numBodies)
		} else {
			s.Random.Count = numBodies
		}
	}
	if flags.Changed("paused") {
		s.StartRunning = !paused
	}
	if flags.Changed("log-level") || s.Logging.Level == "" {
		s.Logging.Level = logLevel
	}
	if flags.Changed("log-format") || s.Logging.Format == "" {
		s.Logging.Format = logFormat
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	log, err := newLogger(s.Logging, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		return runEnsemble(ctx, s, st, log)
	}

	exp, err := experiment.New(s, log)
	if err != nil {
		return err
	}
	exp.Setup(experiment.NewRegistry().DefaultMetrics(s.Params()))

	fmt.Printf("running %s (%d bodies)...\n", s.Name, s.BodyCount())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(s, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (paused %d)\n", result.StepsTaken, result.PausedTicks)
	fmt.Printf("contacts: %d\n", result.Contacts)
	fmt.Printf("energy drift: %.6f\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(os.Stdout, result.Metrics)

	return nil
}

func runEnsemble(ctx context.Context, s *config.Scenario, st *storage.Store, log *zap.Logger) error {
	factory := experiment.Factory(s, experiment.NewRegistry(), log)

	cfg := sim.DefaultConfig()
	cfg.Dt = s.Dt
	cfg.Duration = s.Duration
	cfg.StartRunning = s.StartRunning

	fmt.Printf("running %s with %d seeds...\n", s.Name, runs)
	start := time.Now()
	results, err := sim.NewEnsemble(factory, runs, s.Seed).Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tRUN ID\tCONTACTS\tENERGY DRIFT")
	for i, result := range results {
		variant := s.Clone()
		variant.Seed = s.Seed + int64(i)
		runID, err := st.Save(variant, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.6f\n", variant.Seed, runID, result.Contacts, result.EnergyDrift)
	}
	return w.Flush()
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, metrics[name])
	}
}

// liveLogger writes to a file under the data directory so log lines do not
// tear the terminal UI.
func liveLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return newLogger(cfg, filepath.Join(dataDir, "live.log"))
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		return runPicker(cmd)
	}

	s, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	log, err := liveLogger(s.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	exp, err := experiment.New(s, log)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(exp, log))
}

func runPicker(cmd *cobra.Command) error {
	log, err := liveLogger(config.LoggingConfig{Level: logLevel, Format: logFormat})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	return viz.Run(viz.NewPicker(log))
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tG\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%.3g\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.GravityConstant,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if plotBody < 0 || plotBody >= len(frames[0]) {
		return fmt.Errorf("body %d out of range (run has %d bodies)", plotBody, len(frames[0]))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	energy := make([]float64, len(frames))
	axes := [3][]float64{}
	for i := range axes {
		axes[i] = make([]float64, len(frames))
	}
	for i, f := range frames {
		energy[i] = physics.KineticEnergy(f)
		for a := range axes {
			axes[a][i] = float64(f[plotBody].Position[a])
		}
	}

	plots := []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", energy},
		{fmt.Sprintf("body %d x", plotBody), axes[0]},
		{fmt.Sprintf("body %d y", plotBody), axes[1]},
		{fmt.Sprintf("body %d z", plotBody), axes[2]},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, frames, times)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := storage.ExportJSON(f, meta, frames, times); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames in run %s", runID)
	}

	var svg string
	if finalOnly || len(frames) < 2 {
		svg = export.FrameToSVG(frames[len(frames)-1], svgWidth, svgHeight)
	} else {
		svg = export.TrajectoriesToSVG(frames, svgWidth, svgHeight)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tSCALED\tDURATION\tDT")
	for _, name := range config.ListPresets() {
		s := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.3g\t%t\t%.1fs\t%.4fs\n",
			name,
			s.BodyCount(),
			s.GravityConstant,
			s.ScaleGravityByDt,
			s.Duration,
			s.Dt,
		)
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	log, err := newLogger(config.LoggingConfig{Level: logLevel, Format: logFormat}, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running script %s (%d steps)\n\n", script.Name, len(script.Steps))
	results, err := automation.NewRunner(st, experiment.NewRegistry(), log).RunScript(ctx, script)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tRUN ID\tSTEPS\tPAUSED\tCONTACTS\tENERGY DRIFT")
	for i, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%.6f\n",
			i+1, r.Scenario, runID, r.Result.StepsTaken, r.Result.PausedTicks, r.Result.Contacts, r.Result.EnergyDrift)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	log, err := newLogger(config.LoggingConfig{Level: logLevel, Format: logFormat}, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := &automation.Sweep{
		Preset:   args[0],
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Duration: duration,
	}
	results, err := automation.NewRunner(nil, experiment.NewRegistry(), log).RunSweep(ctx, sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "G\tCONTACTS\tENERGY DRIFT\tMAX PENETRATION\tERRORS")
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%.6f\t%.4f\t%d\n", r.GravityConstant, r.Contacts, r.EnergyDrift, r.MaxPenetration, r.Errors)
	}
	return w.Flush()
}

func benchEngine(cmd *cobra.Command, args []string) error {
	counts := []int{16, 64, 256, 1024}

	fmt.Printf("benchmarking %d ticks per body count\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tTICKS\tTIME\tTICKS/SEC\tCONTACTS")

	for _, n := range counts {
		s := config.DefaultScenario()
		s.Name = "bench"
		s.Random = config.DefaultRandom(n)

		exp, err := experiment.New(s, nil)
		if err != nil {
			return err
		}

		eng := exp.Engine()
		in := physics.Input{Dt: float32(s.Dt)}
		contacts := 0

		start := time.Now()
		for i := 0; i < benchTicks; i++ {
			contacts += eng.Tick(in).Contacts
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%d\n",
			n,
			benchTicks,
			elapsed.Round(time.Microsecond),
			float64(benchTicks)/elapsed.Seconds(),
			contacts,
		)
	}

	return w.Flush()
}
