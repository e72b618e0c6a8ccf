package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/fieldbench/internal/bench"
	"github.com/wesleyorama2/fieldbench/internal/clock"
	"github.com/wesleyorama2/fieldbench/internal/config"
	"github.com/wesleyorama2/fieldbench/internal/report"
	"github.com/wesleyorama2/fieldbench/internal/stabilize"
	"github.com/wesleyorama2/fieldbench/internal/subjects"
)

type runOptions struct {
	configFile  string
	groups      []string
	iterations  string
	output      string
	format      string
	noStabilize bool
	noCalibrate bool
	noColor     bool
	logLevel    string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run benchmark groups and write the report",
		Long: `Stabilize the runtime, then measure every candidate of each selected group
once per iteration count and write the report.

Examples:
  fieldbench run
  fieldbench run --group field-set --iterations 1000,10000
  fieldbench run --config bench.yaml --output benchmark.txt
  fieldbench run --format json -o results.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().StringSliceVarP(&opts.groups, "group", "g", nil, "Group to run (repeatable, default: all)")
	cmd.Flags().StringVar(&opts.iterations, "iterations", "", "Comma separated iteration counts (default: 20000,200000,2000000)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file for the report (default: stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Report format (text, json)")
	cmd.Flags().BoolVar(&opts.noStabilize, "no-stabilize", false, "Skip environment stabilization")
	cmd.Flags().BoolVar(&opts.noCalibrate, "no-calibrate", false, "Skip clock calibration")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored headings")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

// resolveConfig loads the configuration file, if any, and applies the flags
// the user set on top of it.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := &config.Config{}
	if opts.configFile != "" {
		loaded, err := config.LoadConfig(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("group") {
		cfg.Groups = opts.groups
	}
	if flags.Changed("iterations") {
		plan, err := config.ParseIterations(opts.iterations)
		if err != nil {
			return nil, err
		}
		cfg.Iterations = plan
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if opts.noStabilize {
		cfg.Stabilize.Enabled = config.Bool(false)
	}
	if opts.noCalibrate {
		cfg.Calibration.Enabled = config.Bool(false)
	}
	if opts.noColor {
		cfg.Output.Color = config.Bool(false)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// flusher is implemented by emitters that buffer the whole report.
type flusher interface {
	Flush() error
}

// runBenchmark runs the selected groups. Whatever was measured before a
// failure is still flushed to the sink before the error is returned.
func runBenchmark(cmd *cobra.Command, opts *runOptions) (err error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	groups, err := subjects.Build(cfg.Groups...)
	if err != nil {
		return err
	}

	var stabilizer *stabilize.Stabilizer
	if config.IsSet(cfg.Stabilize.Enabled) {
		stabilizer = stabilize.New(stabilize.Options{
			CollectGarbage:  config.IsSet(cfg.Stabilize.CollectGarbage),
			ElevatePriority: config.IsSet(cfg.Stabilize.ElevatePriority),
			PinCPU:          config.IsSet(cfg.Stabilize.PinCPU),
		}, logger)
		defer stabilizer.Restore()

		// Stabilize before calibrating so the clock is profiled under the
		// same conditions as the run. The session's own call is then a no-op.
		stabilizer.Stabilize()
		if stabilizer.Degraded() {
			logger.Warn("running without full stabilization")
		}
	}

	if config.IsSet(cfg.Calibration.Enabled) {
		profile, err := clock.Calibrate(cfg.Calibration.Samples)
		if err != nil {
			return fmt.Errorf("clock calibration failed: %w", err)
		}
		logger.Info("clock calibrated",
			slog.Int64("samples", profile.Samples),
			slog.Duration("min", profile.Min),
			slog.Duration("p50", profile.P50),
			slog.Duration("p99", profile.P99),
			slog.Duration("max", profile.Max),
		)
	}

	sink, err := report.OpenSink(cfg.Output.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to write report: %w", cerr))
		}
	}()

	var emitter bench.Emitter
	switch cfg.Output.Format {
	case config.FormatJSON:
		emitter = report.NewJSONEmitter(sink, cfg.Name)
	default:
		emitter = report.NewTextEmitter(sink, report.ColorsFor(sink, config.IsSet(cfg.Output.Color)))
	}

	sessionCfg := bench.SessionConfig{
		Plan:    cfg.Plan(),
		Emitter: emitter,
		Logger:  logger,
	}
	if stabilizer != nil {
		sessionCfg.Stabilizer = stabilizer
	}
	session, err := bench.NewSession(sessionCfg)
	if err != nil {
		return err
	}

	runErr := session.Run(groups)
	if f, ok := emitter.(flusher); ok {
		if ferr := f.Flush(); ferr != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to write report: %w", ferr))
		}
	}
	if runErr != nil {
		return runErr
	}

	if sink.IsFile() {
		logger.Info("report written", slog.String("path", sink.Path()))
	}
	return nil
}
