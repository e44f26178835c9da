package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/weiihann/algogauge/arrays"
	"github.com/weiihann/algogauge/gauge"
	"github.com/weiihann/algogauge/handshake"
	"github.com/weiihann/algogauge/metrics"
	"github.com/weiihann/algogauge/record"
	"github.com/weiihann/algogauge/sorting"
)

// language identifies this implementation in result records.
const language = "Go"

func newRunCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var (
		units       unitFlags
		verbose     bool
		dumpArrays  bool
		outputJSON  bool
		filePath    string
		perf        bool
		format      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run sorting benchmarks in this process",
		Long: `Generate an array for every unit, sort it with the selected algorithm,
time the sort and verify the result. With --perf every unit is paced by the
READY?/DONE! handshake over stdin and stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				level.Set(slog.LevelDebug)
			}

			recordFormat, err := record.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %v", gauge.ErrConfig, err)
			}

			plan, err := units.plan(cmd.Flags())
			if err != nil {
				return err
			}

			return runUnits(cmd.Context(), logger, runConfig{
				plan:        plan,
				dumpArrays:  dumpArrays,
				outputJSON:  outputJSON,
				filePath:    filePath,
				perf:        perf,
				format:      recordFormat,
				metricsFile: metricsFile,
				stdin:       cmd.InOrStdin(),
				stdout:      cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	units.register(flags)
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Verbose diagnostic logging on stderr")
	flags.BoolVarP(&dumpArrays, "output", "o", false,
		"Log the arrays before and after sorting; keep lengths under 100")
	flags.BoolVarP(&outputJSON, "json", "j", false,
		"Emit result records on stdout")
	flags.StringVarP(&filePath, "file", "f", "",
		"Append result records to this file")
	flags.BoolVarP(&perf, "perf", "p", false,
		"Pace every unit with the READY?/DONE! handshake")
	flags.StringVar(&format, "format", string(record.FormatPseudoArray),
		"Record stream format: "+strings.Join(record.Formats(), ", "))
	flags.StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this file")

	return cmd
}

type runConfig struct {
	plan        gauge.Plan
	dumpArrays  bool
	outputJSON  bool
	filePath    string
	perf        bool
	format      record.Format
	metricsFile string
	stdin       io.Reader
	stdout      io.Writer
}

func runUnits(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	seed := cfg.plan.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.DebugContext(ctx, "starting benchmark",
		slog.Int("units", len(cfg.plan.Units)),
		slog.Int("max", cfg.plan.MaxValue),
		slog.Int64("seed", seed),
		slog.Bool("perf", cfg.perf),
	)

	units := make([]*gauge.Unit, len(cfg.plan.Units))
	for i, spec := range cfg.plan.Units {
		u, err := gauge.NewUnit(spec)
		if err != nil {
			return err
		}

		units[i] = u
	}

	sessionCfg := gauge.SessionConfig{
		Language: language,
		Generator: arrays.NewGenerator(arrays.Config{
			MaxValue: cfg.plan.MaxValue,
			Seed:     seed,
		}),
		DumpArrays: cfg.dumpArrays,
		Logger:     logger,
	}

	var m *metrics.Metrics
	if cfg.metricsFile != "" {
		m = metrics.New()
		sessionCfg.Observer = m
	}

	if cfg.perf {
		if f, ok := cfg.stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			logger.WarnContext(ctx, "handshake acknowledgments will be read from the terminal")
		}

		sessionCfg.Stepper = handshake.NewSyncer(cfg.stdin, cfg.stdout, logger)
	}

	records, err := gauge.NewSession(sessionCfg).Execute(ctx, units)
	if err != nil {
		return err
	}

	if cfg.outputJSON {
		if err := record.Write(cfg.stdout, cfg.format, records); err != nil {
			return err
		}
	}

	if cfg.filePath != "" {
		if err := record.AppendFile(cfg.filePath, cfg.format, records); err != nil {
			return err
		}
	}

	if m != nil {
		if err := m.WriteTextfile(cfg.metricsFile); err != nil {
			return err
		}
	}

	return nil
}

func printChoices(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"algorithms: %s\nstrategies: %s\nformats:    %s\n",
		strings.Join(sorting.Names(), ", "),
		strings.Join(arrays.Strategies(), ", "),
		strings.Join(record.Formats(), ", "),
	)

	return err
}
