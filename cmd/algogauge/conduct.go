package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/weiihann/algogauge/gauge"
	"github.com/weiihann/algogauge/harness"
	"github.com/weiihann/algogauge/metrics"
	"github.com/weiihann/algogauge/report"
)

func newConductCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var (
		units       unitFlags
		languages   []string
		implDir     string
		skipBuild   bool
		sync        bool
		timeout     time.Duration
		outputJSON  bool
		verbose     bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "conduct",
		Short: "Run the same benchmarks across language implementations",
		Long: `Launch each language implementation in turn with the same units, pace
it through the READY?/DONE! handshake, collect its result records and compare
run times across languages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				level.Set(slog.LevelDebug)
			}

			plan, err := units.plan(cmd.Flags())
			if err != nil {
				return err
			}

			return conduct(cmd.Context(), logger, conductConfig{
				plan:        plan,
				languages:   languages,
				implDir:     implDir,
				skipBuild:   skipBuild,
				sync:        sync,
				timeout:     timeout,
				outputJSON:  outputJSON,
				metricsFile: metricsFile,
				stdout:      cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	units.register(flags)
	flags.StringSliceVar(&languages, "languages", []string{"self"},
		"Implementations to benchmark: "+strings.Join(harness.KnownLanguages(), ", "))
	flags.StringVar(&implDir, "impl-dir", "",
		"Path to implementations directory (default: ./implementations)")
	flags.BoolVar(&skipBuild, "skip-build", false,
		"Skip building implementations")
	flags.BoolVar(&sync, "sync", true,
		"Pace implementations with the READY?/DONE! handshake")
	flags.DurationVar(&timeout, "timeout", 30*time.Minute,
		"Maximum run time per implementation")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of table")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Verbose diagnostic logging on stderr")
	flags.StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this file")

	return cmd
}

type conductConfig struct {
	plan        gauge.Plan
	languages   []string
	implDir     string
	skipBuild   bool
	sync        bool
	timeout     time.Duration
	outputJSON  bool
	metricsFile string
	stdout      io.Writer
}

func conduct(
	ctx context.Context,
	logger *slog.Logger,
	cfg conductConfig,
) error {
	if len(cfg.languages) == 0 {
		return fmt.Errorf(
			"%w: at least one language must be specified via --languages",
			gauge.ErrConfig,
		)
	}

	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	logger.InfoContext(ctx, "starting comparison",
		slog.Int("units", len(cfg.plan.Units)),
		slog.Any("languages", cfg.languages),
		slog.Bool("sync", cfg.sync),
	)

	implDir := cfg.implDir
	if implDir == "" {
		implDir = "implementations"
	}

	var err error

	implDir, err = filepath.Abs(implDir)
	if err != nil {
		return fmt.Errorf("resolve implementations dir: %w", err)
	}

	// Step 1: Build implementations (unless --skip-build).
	binaries := make(map[string]string, len(cfg.languages))

	for _, lang := range cfg.languages {
		binPath := harness.ResolveBinary(implDir, lang)

		if !cfg.skipBuild {
			binPath, err = harness.Build(ctx, logger, implDir, lang)
			if err != nil {
				return fmt.Errorf("build %s: %w", lang, err)
			}
		}

		binaries[lang] = binPath
	}

	var m *metrics.Metrics
	if cfg.metricsFile != "" {
		m = metrics.New()
	}

	// Step 2: Run each implementation sequentially.
	results := make([]harness.Result, 0, len(cfg.languages))

	for _, lang := range cfg.languages {
		runner := harness.NewRunner(
			lang, harness.WrapCommand(lang, binaries[lang]), logger,
		)
		if m != nil {
			runner.Observer = m
		}

		result, runErr := runner.Run(ctx, harness.RunConfig{
			Units:    cfg.plan.Units,
			MaxValue: cfg.plan.MaxValue,
			Sync:     cfg.sync,
			Timeout:  cfg.timeout,
		})
		if runErr != nil {
			return fmt.Errorf("run %s: %w", lang, runErr)
		}

		if m != nil {
			for _, r := range result.Records {
				m.ObserveSort(
					strings.ToLower(r.AlgorithmName),
					strings.ToLower(r.AlgorithmOption),
					time.Duration(float64(r.RunTimeMs)*float64(time.Millisecond)),
					bool(r.Verified),
				)
			}
		}

		results = append(results, *result)
	}

	// Step 3: Generate report.
	if cfg.outputJSON {
		if err := report.GenerateJSON(cfg.stdout, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(cfg.stdout, runID, results); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	if m != nil {
		if err := m.WriteTextfile(cfg.metricsFile); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "comparison complete")

	return nil
}
