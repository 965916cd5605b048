package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/CDE90/pi-blocks-simulation/internal/config"
	"github.com/CDE90/pi-blocks-simulation/internal/metrics"
	"github.com/CDE90/pi-blocks-simulation/internal/sim"
	"github.com/CDE90/pi-blocks-simulation/internal/storage"
	"github.com/CDE90/pi-blocks-simulation/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string

	mass0     string
	mass1     string
	velocity1 string
	timeStep  string

	denomCap         int64
	simplifyInterval int
	maxSteps         int
	sampleEvery      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pi-blocks",
		Short: "compute pi from elastic block collisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view when no command is given.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pi-blocks", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless until separation and save the result",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step limit")
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "snapshot every N steps")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s mass ratio %s:%s, v1=%s\n", name, cfg.Mass1, cfg.Mass0, cfg.Velocity1)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput across precision caps",
		RunE:  benchCaps,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&mass0, "mass0", "1", "mass of the light block")
	cmd.Flags().StringVar(&mass1, "mass1", "10000", "mass of the heavy block")
	cmd.Flags().StringVar(&velocity1, "v1", "-5", "initial velocity of the heavy block")
	cmd.Flags().StringVar(&timeStep, "dt", "1/100", "time step")
	cmd.Flags().Int64Var(&denomCap, "cap", sim.DefaultDenominatorCap, "denominator cap")
	cmd.Flags().IntVar(&simplifyInterval, "interval", sim.DefaultSimplifyInterval, "steps between simplification passes")
}

// buildConfig resolves preset, config file and CLI flags, in that order of
// increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
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

	if cmd.Flags().Changed("mass0") {
		cfg.Mass0 = mass0
	}
	if cmd.Flags().Changed("mass1") {
		cfg.Mass1 = mass1
	}
	if cmd.Flags().Changed("v1") {
		cfg.Velocity1 = velocity1
	}
	if cmd.Flags().Changed("dt") {
		cfg.TimeStep = timeStep
	}
	if cmd.Flags().Changed("cap") {
		cfg.DenominatorCap = denomCap
	}
	if cmd.Flags().Changed("interval") {
		cfg.SimplifyInterval = simplifyInterval
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}

	return cfg, nil
}

func buildSim(cmd *cobra.Command) (*sim.Simulation, *config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(params)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, cfg, err := buildSim(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runMetrics := []sim.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewPiError(),
	}

	fmt.Printf("running with mass ratio %s:%s...\n", cfg.Mass1, cfg.Mass0)
	start := time.Now()

	result, err := s.Run(context.Background(), sim.RunConfig{
		MaxSteps:    cfg.MaxSteps,
		SampleEvery: cfg.SampleEvery,
	}, runMetrics)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(s.Params(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %s\n", humanize.Comma(int64(result.Steps)))
	if result.Separated {
		fmt.Println("blocks separated permanently")
	} else {
		fmt.Println("step limit reached before separation")
	}
	fmt.Printf("collisions: %d (wall %d, block %d)\n",
		s.TotalCollisions(), s.WallCollisions(), s.BlockCollisions())
	fmt.Printf("pi approximation: %.8f (true %.8f)\n", s.PiApproximation(), math.Pi)

	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, _, err := buildSim(cmd)
	if err != nil {
		return err
	}
	return tui.RunInteractive(s)
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
	fmt.Fprintln(w, "ID\tTIME\tRATIO\tSTEPS\tCOLLISIONS\tPI\tSEPARATED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s:%s\t%d\t%d\t%.8f\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mass1, run.Mass0,
			run.Steps,
			run.TotalCollisions,
			run.PiApproximation,
			run.Separated,
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

	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mass ratio: %s:%s\n", meta.Mass1, meta.Mass0)
	fmt.Printf("samples: %d\n\n", len(snaps))

	series := []struct {
		caption string
		extract func(sim.Snapshot) float64
	}{
		{"x0 (light block position)", func(s sim.Snapshot) float64 { return s.Position0 }},
		{"x1 (heavy block position)", func(s sim.Snapshot) float64 { return s.Position1 }},
		{"pi approximation", func(s sim.Snapshot) float64 { return s.Pi }},
	}

	for _, sr := range series {
		data := make([]float64, len(snaps))
		for i, snap := range snaps {
			data[i] = sr.extract(snap)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "x0", "v0", "x1", "v1", "collisions", "pi"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range snaps {
		row := []string{
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			strconv.FormatFloat(snap.Position0, 'f', 6, 64),
			strconv.FormatFloat(snap.Velocity0, 'f', 6, 64),
			strconv.FormatFloat(snap.Position1, 'f', 6, 64),
			strconv.FormatFloat(snap.Velocity1, 'f', 6, 64),
			strconv.Itoa(snap.TotalCollisions),
			strconv.FormatFloat(snap.Pi, 'f', 8, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
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

	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, snaps)
}

func benchCaps(cmd *cobra.Command, args []string) error {
	const steps = 20_000

	caps := []int64{1_000_000, 1_000_000_000, 1_000_000_000_000}
	ratios := []string{"100", "10000"}

	fmt.Printf("benchmarking %s steps per configuration\n\n", humanize.Comma(steps))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RATIO\tCAP\tTIME\tSTEPS/SEC")

	for _, ratio := range ratios {
		for _, cap := range caps {
			cfg := config.DefaultConfig()
			cfg.Mass1 = ratio
			cfg.Velocity1 = "-1"
			cfg.DenominatorCap = cap

			params, err := cfg.Params()
			if err != nil {
				return err
			}
			s, err := sim.New(params)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(context.Background(), sim.RunConfig{MaxSteps: steps}, nil)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.Steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%s:1\t%s\t%v\t%.0f\n",
				ratio, humanize.Comma(cap), elapsed.Round(time.Millisecond), stepsPerSec)
		}
	}

	return w.Flush()
}
