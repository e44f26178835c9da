// Package handshake implements the READY?/DONE! protocol that lets a
// controlling process pace a benchmark child one unit at a time.
//
// For every unit the child writes ReadyToken to its output and blocks until
// it reads an acknowledgment, runs the unit, then writes DoneToken and blocks
// again. Any bytes count as an acknowledgment; end of input does too.
package handshake

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Protocol tokens. They are written without delimiters.
const (
	ReadyToken = "READY?"
	DoneToken  = "DONE!"
)

// ErrState is returned when a step is attempted from the wrong state.
var ErrState = errors.New("handshake: invalid state")

// State is the position of a Syncer within one handshake step.
type State int

// Syncer states.
const (
	StateIdle State = iota
	StateAwaitingReady
	StateRunning
	StateAwaitingAck
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReady:
		return "awaiting-ready"
	case StateRunning:
		return "running"
	case StateAwaitingAck:
		return "awaiting-ack"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type flusher interface {
	Flush() error
}

// Syncer is the child side of the protocol.
type Syncer struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	state  State
	buf    []byte
}

// NewSyncer creates a Syncer reading acknowledgments from in and writing
// tokens to out.
func NewSyncer(in io.Reader, out io.Writer, logger *slog.Logger) *Syncer {
	return &Syncer{
		in:     in,
		out:    out,
		logger: logger,
		buf:    make([]byte, 100),
	}
}

// State returns the current protocol state.
func (s *Syncer) State() State {
	return s.state
}

// Step performs one paced unit of work. DoneToken is sent even when run
// fails so the controller is never left waiting; run's error is returned
// after the final acknowledgment.
func (s *Syncer) Step(run func() error) error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: step from %s", ErrState, s.state)
	}

	if err := s.signal(ReadyToken); err != nil {
		return err
	}

	s.state = StateAwaitingReady

	ack, err := s.await()
	if err != nil {
		return err
	}

	s.logger.Debug("ready acknowledged", slog.String("ack", ack))

	s.state = StateRunning
	runErr := run()

	if err := s.signal(DoneToken); err != nil {
		return err
	}

	s.state = StateAwaitingAck

	ack, err = s.await()
	if err != nil {
		return err
	}

	s.logger.Debug("done acknowledged", slog.String("ack", ack))

	s.state = StateIdle

	return runErr
}

func (s *Syncer) signal(token string) error {
	if _, err := io.WriteString(s.out, token); err != nil {
		return fmt.Errorf("write %s: %w", token, err)
	}

	if f, ok := s.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", token, err)
		}
	}

	return nil
}

// await blocks until at least one byte or end of input arrives.
func (s *Syncer) await() (string, error) {
	for {
		n, err := s.in.Read(s.buf)
		if n > 0 {
			return string(s.buf[:n]), nil
		}

		if errors.Is(err, io.EOF) {
			return "", nil
		}

		if err != nil {
			return "", fmt.Errorf("read acknowledgment: %w", err)
		}
	}
}
