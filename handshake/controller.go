package handshake

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Ack is the acknowledgment the Controller writes for each token.
const Ack = "GO\n"

// ErrIncomplete is returned when the child's output ends while a unit is
// still running.
var ErrIncomplete = errors.New("handshake: output ended mid-unit")

// Step is the externally observed timing of one paced unit.
type Step struct {
	Index int
	// Wall is the time from acknowledging ReadyToken to reading DoneToken.
	Wall time.Duration
}

// Transcript is everything a Controller observed from one child.
type Transcript struct {
	Steps []Step
	// Payload holds the child's output with all tokens removed.
	Payload []byte
}

// Controller is the orchestrator side of the protocol. It scans a child's
// output for tokens, acknowledges each one, and times every unit.
type Controller struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewController creates a Controller.
func NewController(logger *slog.Logger) *Controller {
	return &Controller{logger: logger, now: time.Now}
}

// Drive consumes the child's output from childOut until end of stream,
// writing an acknowledgment to childIn after every token. Once units steps
// have completed the rest of the stream is payload and is not scanned for
// tokens. A non-positive units scans the whole stream.
func (c *Controller) Drive(childOut io.Reader, childIn io.Writer, units int) (*Transcript, error) {
	var (
		transcript Transcript
		payload    bytes.Buffer
		pending    []byte
		started    time.Time
	)

	r := bufio.NewReader(childOut)
	expected := ReadyToken

	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read child output: %w", err)
		}

		pending = append(pending, b)
		for len(pending) > 0 && !strings.HasPrefix(expected, string(pending)) {
			payload.WriteByte(pending[0])
			pending = pending[1:]
		}

		if string(pending) != expected {
			continue
		}

		pending = pending[:0]

		if expected == DoneToken {
			step := Step{Index: len(transcript.Steps), Wall: c.now().Sub(started)}
			transcript.Steps = append(transcript.Steps, step)

			c.logger.Debug("unit done",
				slog.Int("index", step.Index),
				slog.Duration("wall", step.Wall),
			)
		}

		if _, err := io.WriteString(childIn, Ack); err != nil {
			return nil, fmt.Errorf("acknowledge %s: %w", expected, err)
		}

		if expected == ReadyToken {
			started = c.now()
			expected = DoneToken

			continue
		}

		expected = ReadyToken

		if units > 0 && len(transcript.Steps) == units {
			if _, err := io.Copy(&payload, r); err != nil {
				return nil, fmt.Errorf("read child output: %w", err)
			}

			break
		}
	}

	payload.Write(pending)
	transcript.Payload = payload.Bytes()

	if expected == DoneToken {
		return &transcript, fmt.Errorf("%w: unit %d",
			ErrIncomplete, len(transcript.Steps))
	}

	return &transcript, nil
}
