package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/weiihann/algogauge/gauge"
	"github.com/weiihann/algogauge/handshake"
	"github.com/weiihann/algogauge/record"
)

// RunConfig holds parameters for a single implementation execution.
type RunConfig struct {
	Units    []gauge.Spec
	MaxValue int
	// Sync paces the child through the handshake when it supports it.
	Sync    bool
	Timeout time.Duration
}

// StepObserver receives externally measured unit timings.
type StepObserver interface {
	ObserveStep(language string, wall time.Duration)
}

// Runner launches and manages a single implementation.
type Runner struct {
	Language string
	Command  CommandConfig
	Observer StepObserver
	Logger   *slog.Logger
}

// NewRunner creates a Runner for the named language.
func NewRunner(language string, command CommandConfig, logger *slog.Logger) *Runner {
	return &Runner{
		Language: language,
		Command:  command,
		Logger:   logger.With(slog.String("language", language)),
	}
}

// Args builds the implementation's command line for cfg.
func (r *Runner) Args(cfg RunConfig) []string {
	flags := r.Command.Flags

	args := make([]string, 0, len(r.Command.ExtraArgs)+len(cfg.Units)*8+4)
	args = append(args, r.Command.ExtraArgs...)

	named := false
	for _, u := range cfg.Units {
		if u.CanonicalName != "" {
			named = true

			break
		}
	}

	for _, u := range cfg.Units {
		args = append(args,
			flags.Algorithm, u.Algorithm,
			flags.Strategy, u.Strategy,
			flags.Length, strconv.Itoa(u.Size),
		)

		if named && flags.Name != "" {
			args = append(args, flags.Name, u.CanonicalName)
		}
	}

	if cfg.MaxValue > 0 && flags.Max != "" {
		args = append(args, flags.Max, strconv.Itoa(cfg.MaxValue))
	}

	if flags.JSON != "" {
		args = append(args, flags.JSON)
	}

	if cfg.Sync && flags.Perf != "" {
		args = append(args, flags.Perf)
	}

	return args
}

// Run executes the implementation and returns its parsed results.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	sync := cfg.Sync
	if sync && r.Command.Flags.Perf == "" {
		r.Logger.WarnContext(ctx, "implementation does not support the handshake, running unsynchronized")

		sync = false
	}

	cfg.Sync = sync

	cmd := exec.CommandContext(ctx, r.Command.Binary, r.Args(cfg)...)

	if len(r.Command.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Command.Env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.Logger.InfoContext(ctx, "starting implementation",
		slog.String("binary", r.Command.Binary),
		slog.Int("units", len(cfg.Units)),
		slog.Bool("sync", sync),
	)

	wallStart := time.Now()

	var (
		output []byte
		steps  []handshake.Step
		err    error
	)

	if sync {
		output, steps, err = r.drive(cmd, len(cfg.Units))
	} else {
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		err = cmd.Run()
		output = stdout.Bytes()
	}

	if err != nil {
		return nil, fmt.Errorf(
			"implementation %s failed: %w\nstderr: %s",
			r.Language, err, stderr.String(),
		)
	}

	wallElapsed := time.Since(wallStart)

	r.Logger.InfoContext(ctx, "implementation finished",
		slog.Duration("wall_time", wallElapsed),
	)

	records, err := parseRecords(r.Language, bytes.NewReader(output))
	if err != nil {
		return nil, fmt.Errorf(
			"parse %s output: %w\nstdout: %s",
			r.Language, err, output,
		)
	}

	if sync && len(steps) != len(records) {
		r.Logger.WarnContext(ctx, "handshake steps do not match records",
			slog.Int("steps", len(steps)),
			slog.Int("records", len(records)),
		)
	}

	if r.Observer != nil {
		for _, s := range steps {
			r.Observer.ObserveStep(r.Language, s.Wall)
		}
	}

	return &Result{
		Language: r.Language,
		Records:  records,
		Steps:    steps,
		WallTime: wallElapsed,
	}, nil
}

// drive starts cmd and paces it through the handshake until its output
// ends, then waits for it to exit.
func (r *Runner) drive(cmd *exec.Cmd, units int) ([]byte, []handshake.Step, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}

	transcript, driveErr := handshake.NewController(r.Logger).Drive(stdout, stdin, units)

	// Closing stdin releases a child still blocked on an acknowledgment.
	stdin.Close()

	if driveErr != nil {
		// Drain so Wait does not block on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := cmd.Wait()

	if err := errors.Join(driveErr, waitErr); err != nil {
		return nil, nil, err
	}

	return transcript.Payload, transcript.Steps, nil
}

func parseRecords(language string, r io.Reader) ([]record.Record, error) {
	records, err := record.Decode(r)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.New("no result records in output")
	}

	for i := range records {
		if records[i].Language == "" {
			records[i].Language = language
		}
	}

	return records, nil
}
