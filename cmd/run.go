package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/config"
	coremetrics "github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/metrics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/physics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/rolling"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/infra/input"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/infra/logger"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/infra/metrics"
	infrasolver "github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/infra/solver"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/pkg/checkpoint"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/pkg/export"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the rolling unit-commitment loop",
	RunE:  runRolling,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRolling(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("run")

	fleet, err := input.LoadFleet(cfg.Inputs.Fleet)
	if err != nil {
		return fmt.Errorf("fleet: %w", err)
	}
	load, err := input.LoadSeries(cfg.Inputs.Load, "load")
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	cfs := map[string][]float64{}
	if cfg.Inputs.CapacityFactors != "" {
		if cfs, err = input.LoadCapacityFactors(cfg.Inputs.CapacityFactors); err != nil {
			return fmt.Errorf("capacity factors: %w", err)
		}
	}
	var deadtimes physics.DeadtimeTable
	if cfg.Inputs.DeadtimeTable != "" {
		if deadtimes, err = input.LoadDeadtimeTable(cfg.Inputs.DeadtimeTable); err != nil {
			return fmt.Errorf("deadtime table: %w", err)
		}
	}
	var limits physics.ReactivityLimitTable
	if cfg.Inputs.ReactivityLimits != "" {
		if limits, err = input.LoadReactivityLimits(cfg.Inputs.ReactivityLimits); err != nil {
			return fmt.Errorf("reactivity limits: %w", err)
		}
	}

	T := cfg.Run.WindowHours
	if len(load) < cfg.Run.Windows*T {
		return fmt.Errorf("load profile covers %d hours, %d windows of %d need %d",
			len(load), cfg.Run.Windows, T, cfg.Run.Windows*T)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
		go func() {
			if err := metrics.StartPromServer(cfg.Metrics.PrometheusPort); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	reactors := make(map[string]bool)
	for _, g := range fleet.Reactors() {
		reactors[g.ID] = true
	}

	pipe, err := rolling.New(rolling.Pipeline{
		Fleet:        fleet,
		Reactors:     reactors,
		Storage:      cfg.Storage,
		Builder:      cfg.Builder,
		Physics:      cfg.Physics,
		Coefficients: cfg.Coefficients(),
		Limits:       limits,
		Deadtimes:    deadtimes,
		Solver:       infrasolver.NewSimplexSolver(),
		Log:          logger.New("pipeline"),
		Sink:         sink,
	})
	if err != nil {
		return err
	}

	ckpt := checkpoint.Manager{Dir: cfg.Run.CheckpointDir}
	st := rolling.NewStore(fleet, reactors)
	if cfg.Run.Resume > 0 {
		if st, err = ckpt.Load(cfg.Run.Resume, fleet); err != nil {
			return fmt.Errorf("resume from window %d: %w", cfg.Run.Resume, err)
		}
		logg.Infof("resumed from checkpoint at window %d", st.Window)
	}

	if err := os.MkdirAll(cfg.Run.OutputDir, 0o755); err != nil {
		return err
	}

	var windows []rolling.WindowData
	for w := st.Window; w < cfg.Run.Windows; w++ {
		data := rolling.WindowData{
			Horizon:    model.NewHorizon(w*T+1, T),
			Load:       load[w*T : (w+1)*T],
			VariableCF: make(map[string][]float64, len(cfs)),
		}
		for id, cf := range cfs {
			if len(cf) < (w+1)*T {
				return fmt.Errorf("capacity factors for %s cover %d hours, window %d needs %d", id, len(cf), w, (w+1)*T)
			}
			data.VariableCF[id] = cf[w*T : (w+1)*T]
		}
		windows = append(windows, data)
	}

	logg.Infof("run %s: %d windows of %d hours, %d generators", pipe.RunID, len(windows), T, len(fleet))
	_, err = pipe.Run(ctx, st, windows, func(res *rolling.Result, next rolling.Store) error {
		if err := writeReports(cfg.Run.OutputDir, fleet, res); err != nil {
			return err
		}
		return ckpt.Save(fleet, next)
	})
	if err != nil {
		return err
	}
	logg.Infof("run complete")
	return nil
}

func writeReports(dir string, fleet model.Fleet, res *rolling.Result) error {
	write := func(name string, fn func(f *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%s_%d.csv", name, res.Window)))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	if err := write("GEN", func(f *os.File) error { return export.WriteDispatchCSV(f, fleet, res) }); err != nil {
		return err
	}
	if err := write("COMMIT", func(f *os.File) error { return export.WriteCommitmentCSV(f, fleet, res) }); err != nil {
		return err
	}
	if err := write("START", func(f *os.File) error { return export.WriteStartCSV(f, fleet, res) }); err != nil {
		return err
	}
	if err := write("SHUT", func(f *os.File) error { return export.WriteShutdownCSV(f, fleet, res) }); err != nil {
		return err
	}
	return write("CURTAIL", func(f *os.File) error { return export.WriteCurtailmentCSV(f, fleet, res) })
}
