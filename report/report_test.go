package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/weiihann/algogauge/handshake"
	"github.com/weiihann/algogauge/harness"
	"github.com/weiihann/algogauge/record"
)

func bubble(language string, ms float64, verified bool) record.Record {
	return record.Record{
		AlgorithmName:   "Bubble",
		AlgorithmOption: "Random",
		AlgorithmLength: 1000,
		Language:        language,
		Verified:        record.Flag(verified),
		RunTimeMs:       record.Millis(ms),
	}
}

func TestGenerateAllVerified(t *testing.T) {
	results := []harness.Result{
		{
			Language: "go",
			Records:  []record.Record{bubble("Go", 10, true)},
			Steps:    []handshake.Step{{Index: 0, Wall: 12 * time.Millisecond}},
			WallTime: 50 * time.Millisecond,
		},
		{
			Language: "python",
			Records:  []record.Record{bubble("Python", 20, true)},
			WallTime: 2 * time.Second,
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, "run-1", results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "all passed") {
		t.Error("expected 'all passed' for verified records")
	}
	if !strings.Contains(output, "run-1") {
		t.Error("expected run id in output")
	}
	if !strings.Contains(output, "| go |") {
		t.Error("expected go in output")
	}
	if !strings.Contains(output, "| python |") {
		t.Error("expected python in output")
	}
	if !strings.Contains(output, "2.00x") {
		t.Error("expected 2.00x speedup for python (twice as slow)")
	}
	if !strings.Contains(output, "12.000ms") {
		t.Error("expected handshake wall time for go")
	}
	if !strings.Contains(output, "2.00s") {
		t.Error("expected process wall time for python")
	}
}

func TestGenerateFailedVerification(t *testing.T) {
	results := []harness.Result{
		{Language: "go", Records: []record.Record{bubble("Go", 1, true)}},
		{Language: "deno", Records: []record.Record{bubble("Deno", 2, false)}},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, "", results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "FAILED") {
		t.Error("expected FAILED for unverified record")
	}
	if !strings.Contains(output, "deno: Bubble/Random (1000)") {
		t.Error("expected deno failure details")
	}
	if strings.Contains(output, "Run:") {
		t.Error("unexpected run line without run id")
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, "", nil)
	if err == nil {
		t.Error("expected error for empty results")
	}
}

func TestGenerateJSON(t *testing.T) {
	results := []harness.Result{
		{Language: "go", Records: []record.Record{bubble("Go", 1.5, true)}},
	}

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, results); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var parsed []harness.Result
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 1 {
		t.Fatalf("expected 1 result, got %d", len(parsed))
	}
	if parsed[0].Language != "go" {
		t.Errorf("language = %q, want go", parsed[0].Language)
	}
	if parsed[0].Records[0].RunTimeMs != 1.5 {
		t.Errorf("run time = %v, want 1.5", parsed[0].Records[0].RunTimeMs)
	}
}

func TestFindFastestSkipsZero(t *testing.T) {
	results := []harness.Result{
		{Records: []record.Record{bubble("Go", 0, true), bubble("Go", 4, true)}},
		{Records: []record.Record{bubble("Python", 3, true)}},
	}

	fastest := findFastest(results)
	key := bubble("", 0, true).Key()

	if fastest[key] != 3 {
		t.Errorf("fastest = %v, want 3", fastest[key])
	}
}

func TestSpeedup(t *testing.T) {
	tests := []struct {
		ms, fastest float64
		want        float64
	}{
		{10, 5, 2},
		{5, 5, 1},
		{0, 5, 1},
		{10, 0, 1},
	}

	for _, tt := range tests {
		got := speedup(tt.ms, tt.fastest)
		if got != tt.want {
			t.Errorf("speedup(%v, %v) = %v, want %v", tt.ms, tt.fastest, got, tt.want)
		}
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.000ms"},
		{500, "500.000ms"},
		{999.9, "999.900ms"},
		{1000, "1.00s"},
		{1500, "1.50s"},
		{60000, "60.00s"},
	}

	for _, tt := range tests {
		got := formatMs(tt.input)
		if got != tt.want {
			t.Errorf("formatMs(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
