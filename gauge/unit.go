// Package gauge runs benchmark units: it generates each unit's input, times
// the sort, verifies the result and produces the result record.
package gauge

import (
	"fmt"
	"slices"
	"time"

	"github.com/weiihann/algogauge/arrays"
	"github.com/weiihann/algogauge/record"
	"github.com/weiihann/algogauge/sorting"
)

// State is a unit's lifecycle position. Units move strictly forward
// through the states, one at a time.
type State int

// Unit states.
const (
	StateCreated State = iota
	StateGenerated
	StateSorted
	StateVerified
	StateSerialized
)

var stateNames = [...]string{"created", "generated", "sorted", "verified", "serialized"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}

	return stateNames[s]
}

// Unit is one benchmarking task and its outcome.
type Unit struct {
	Spec

	Input    []int
	Output   []int
	Elapsed  time.Duration
	Verified bool

	sort  sorting.Func
	state State
}

// NewUnit validates spec and binds it to its sort function.
func NewUnit(spec Spec) (*Unit, error) {
	if err := spec.normalize(); err != nil {
		return nil, err
	}

	fn, err := sorting.Resolve(spec.Algorithm)
	if err != nil {
		return nil, err
	}

	return &Unit{Spec: spec, sort: fn}, nil
}

// State returns the unit's lifecycle position.
func (u *Unit) State() State {
	return u.state
}

// ElapsedMillis returns the sort time in fractional milliseconds.
func (u *Unit) ElapsedMillis() float64 {
	return float64(u.Elapsed.Nanoseconds()) / float64(time.Millisecond)
}

func (u *Unit) advance(from, to State) error {
	if u.state != from {
		return fmt.Errorf("%w: %s to %s from %s", ErrState, from, to, u.state)
	}

	u.state = to

	return nil
}

// Generate builds the unit's input array.
func (u *Unit) Generate(gen *arrays.Generator) error {
	if u.state != StateCreated {
		return fmt.Errorf("%w: generate from %s", ErrState, u.state)
	}

	input, err := gen.Generate(u.Strategy, u.Size)
	if err != nil {
		return fmt.Errorf("generate %s: %w", u.Strategy, err)
	}

	u.Input = input

	return u.advance(StateCreated, StateGenerated)
}

// Sort runs the algorithm on a private copy of the input. Only the sort
// call is inside the timed window; the copy is made before it starts.
func (u *Unit) Sort() error {
	if err := u.advance(StateGenerated, StateSorted); err != nil {
		return err
	}

	work := slices.Clone(u.Input)

	start := time.Now()
	out := u.sort(work)
	u.Elapsed = time.Since(start)

	u.Output = out

	return nil
}

// Verify checks that the output is in non-decreasing order.
func (u *Unit) Verify() (bool, error) {
	if err := u.advance(StateSorted, StateVerified); err != nil {
		return false, err
	}

	u.Verified = sorting.IsSorted(u.Output)

	return u.Verified, nil
}

// Record produces the unit's result record for the given language.
func (u *Unit) Record(language string) (record.Record, error) {
	if err := u.advance(StateVerified, StateSerialized); err != nil {
		return record.Record{}, err
	}

	return record.Record{
		AlgorithmName:          record.Capitalize(u.Algorithm),
		AlgorithmOption:        record.Capitalize(u.Strategy),
		AlgorithmLength:        u.Size,
		Language:               language,
		Verified:               record.Flag(u.Verified),
		AlgorithmCanonicalName: u.CanonicalName,
		RunTimeMs:              record.Millis(u.ElapsedMillis()),
		PerfData:               record.PerfData{},
	}, nil
}
