// Package record defines the JSON result record shared by every AlgoGauge
// implementation and the stream formats used to emit and consume it.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Record is the immutable snapshot of one completed benchmark unit.
type Record struct {
	AlgorithmName          string   `json:"algorithmName"`
	AlgorithmOption        string   `json:"algorithmOption"`
	AlgorithmLength        int      `json:"algorithmLength"`
	Language               string   `json:"language"`
	Verified               Flag     `json:"verified"`
	AlgorithmCanonicalName string   `json:"algorithmCanonicalName"`
	RunTimeMs              Millis   `json:"algorithmRunTime_ms"`
	PerfData               PerfData `json:"perfData"`
}

// Millis is an elapsed time in milliseconds. It always encodes with six
// decimal digits.
type Millis float64

// MarshalJSON implements json.Marshaler.
func (m Millis) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(m), 'f', 6, 64), nil
}

// Flag is a boolean that also decodes from the 0/1 integers some
// implementations emit.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid verified value %s", data)
	}

	return nil
}

// PerfData carries hardware counter data. This implementation never fills
// it, but it always encodes as an object.
type PerfData map[string]any

// MarshalJSON implements json.Marshaler.
func (p PerfData) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}

	return json.Marshal(map[string]any(p))
}

// Capitalize returns s with its first letter upper-cased and the rest
// lower-cased, the form used for algorithm and strategy names in records.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Key identifies the benchmark a record measured, independent of language.
type Key struct {
	Algorithm     string
	Strategy      string
	Length        int
	CanonicalName string
}

// Key returns the language-independent identity of r.
func (r Record) Key() Key {
	return Key{
		Algorithm:     strings.ToLower(r.AlgorithmName),
		Strategy:      strings.ToLower(r.AlgorithmOption),
		Length:        r.AlgorithmLength,
		CanonicalName: r.AlgorithmCanonicalName,
	}
}

func marshal(r Record) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
