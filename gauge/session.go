package gauge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weiihann/algogauge/arrays"
	"github.com/weiihann/algogauge/record"
)

// Stepper paces each unit's sort. The handshake Syncer implements it.
type Stepper interface {
	Step(run func() error) error
}

// Observer receives the outcome of every unit.
type Observer interface {
	ObserveSort(algorithm, strategy string, elapsed time.Duration, verified bool)
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// Language is reported in every record.
	Language  string
	Generator *arrays.Generator
	// Stepper is nil unless synchronized mode is on.
	Stepper  Stepper
	Observer Observer
	// DumpArrays logs the input and output arrays of each unit.
	DumpArrays bool
	Logger     *slog.Logger
}

// Session runs units strictly one after another.
type Session struct {
	cfg SessionConfig
}

// NewSession creates a Session.
func NewSession(cfg SessionConfig) *Session {
	return &Session{cfg: cfg}
}

// Execute generates and sorts every unit, then verifies them and returns
// their records in order. A failed verification is logged and does not
// stop the run.
func (s *Session) Execute(ctx context.Context, units []*Unit) ([]record.Record, error) {
	logger := s.cfg.Logger

	for i, u := range units {
		if err := u.Generate(s.cfg.Generator); err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}

		if s.cfg.DumpArrays {
			logger.InfoContext(ctx, "original array",
				slog.String("algorithm", u.Algorithm),
				slog.Any("array", u.Input),
			)
		}

		logger.DebugContext(ctx, "starting sort",
			slog.Int("unit", i),
			slog.String("algorithm", u.Algorithm),
			slog.String("strategy", u.Strategy),
			slog.Int("size", u.Size),
		)

		var err error
		if s.cfg.Stepper != nil {
			err = s.cfg.Stepper.Step(u.Sort)
		} else {
			err = u.Sort()
		}

		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
	}

	records := make([]record.Record, 0, len(units))

	for i, u := range units {
		if s.cfg.DumpArrays {
			logger.InfoContext(ctx, "sorted array",
				slog.String("algorithm", u.Algorithm),
				slog.Any("array", u.Output),
			)
		}

		ok, err := u.Verify()
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}

		if ok {
			logger.DebugContext(ctx, "sort verified",
				slog.String("algorithm", u.Algorithm),
			)
		} else {
			logger.ErrorContext(ctx, "there was an error when sorting",
				slog.Int("unit", i),
				slog.String("algorithm", u.Algorithm),
				slog.String("strategy", u.Strategy),
			)
		}

		logger.DebugContext(ctx, "sort complete",
			slog.String("algorithm", u.Algorithm),
			slog.String("strategy", u.Strategy),
			slog.Int("size", u.Size),
			slog.Float64("elapsed_ms", u.ElapsedMillis()),
		)

		if s.cfg.Observer != nil {
			s.cfg.Observer.ObserveSort(u.Algorithm, u.Strategy, u.Elapsed, ok)
		}

		rec, err := u.Record(s.cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}

		records = append(records, rec)
	}

	return records, nil
}
