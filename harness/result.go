// Package harness launches AlgoGauge implementations in other processes,
// paces them through the handshake and collects their result records.
package harness

import (
	"time"

	"github.com/weiihann/algogauge/handshake"
	"github.com/weiihann/algogauge/record"
)

// Result holds everything collected from one implementation run.
type Result struct {
	Language string          `json:"language"`
	Records  []record.Record `json:"records"`
	// Steps is empty when the implementation ran unsynchronized.
	Steps    []handshake.Step `json:"steps,omitempty"`
	WallTime time.Duration    `json:"wall_time_ns"`
}

// StepFor returns the externally timed step for the i-th record, if any.
func (r *Result) StepFor(i int) (handshake.Step, bool) {
	if i < 0 || i >= len(r.Steps) {
		return handshake.Step{}, false
	}

	return r.Steps[i], true
}
