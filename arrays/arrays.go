// Package arrays generates the input arrays for sorting benchmarks. Each
// strategy is a named rule producing size integers; random strategies draw
// from [0, max) using a seeded source so runs can be reproduced.
package arrays

import (
	"errors"
	"fmt"
	mrand "math/rand"
	"strings"
)

// DefaultMaxValue is the exclusive upper bound used when none is configured.
const DefaultMaxValue = 1<<32 - 1

// Strategy names.
const (
	Random    = "random"
	Chunk     = "chunk"
	Repeating = "repeating"
	Ordered   = "ordered"
	Reversed  = "reversed"
)

// ErrUnknownStrategy is returned for a strategy name that is not registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// aliases maps historical spellings onto canonical strategy names.
var aliases = map[string]string{
	"sorted":          Ordered,
	"sorted_reversed": Reversed,
	"chunks":          Chunk,
}

// Strategies returns the canonical strategy names in display order.
func Strategies() []string {
	return []string{Random, Chunk, Repeating, Ordered, Reversed}
}

// Canonical resolves a case-insensitive strategy name or alias to its
// canonical form.
func Canonical(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[n]; ok {
		n = alias
	}

	for _, s := range Strategies() {
		if s == n {
			return n, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownStrategy, name)
}

// Config controls array generation parameters.
type Config struct {
	MaxValue int
	Seed     int64
}

// Generator produces arrays from a Config. It is not safe for concurrent use.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config. A non-positive
// MaxValue falls back to DefaultMaxValue.
func NewGenerator(cfg Config) *Generator {
	if cfg.MaxValue <= 0 {
		cfg.MaxValue = DefaultMaxValue
	}

	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// MaxValue returns the exclusive upper bound of random values.
func (g *Generator) MaxValue() int {
	return g.cfg.MaxValue
}

// Generate builds a fresh array of size elements using the named strategy.
func (g *Generator) Generate(strategy string, size int) ([]int, error) {
	name, err := Canonical(strategy)
	if err != nil {
		return nil, err
	}

	if size < 0 {
		return nil, fmt.Errorf("negative size %d", size)
	}

	switch name {
	case Random:
		return g.random(size), nil
	case Chunk:
		return g.chunk(size), nil
	case Repeating:
		return g.repeating(size), nil
	case Ordered:
		return ordered(size), nil
	default:
		return reversed(size), nil
	}
}

func (g *Generator) draw() int {
	return int(g.rng.Int63n(int64(g.cfg.MaxValue)))
}

func (g *Generator) random(size int) []int {
	arr := make([]int, size)
	for i := range arr {
		arr[i] = g.draw()
	}

	return arr
}

// chunk alternates runs of a single repeated value with runs of
// independently drawn values, starting from a random choice.
func (g *Generator) chunk(size int) []int {
	chunkSize := 5
	if size < 10 {
		chunkSize = 1
	}

	arr := make([]int, size)
	independent := g.rng.Intn(2) == 1

	for i := 0; i < size; independent = !independent {
		v := g.draw()
		for j := 0; j < chunkSize && i < size; j++ {
			if independent {
				v = g.draw()
			}
			arr[i] = v
			i++
		}
	}

	return arr
}

func (g *Generator) repeating(size int) []int {
	arr := make([]int, size)
	if size == 0 {
		return arr
	}

	v := g.draw()
	for i := range arr {
		arr[i] = v
	}

	return arr
}

func ordered(size int) []int {
	arr := make([]int, size)
	for i := range arr {
		arr[i] = i + 1
	}

	return arr
}

func reversed(size int) []int {
	arr := make([]int, size)
	for i := range arr {
		arr[i] = size - i
	}

	return arr
}
