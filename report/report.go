// Package report formats cross-language benchmark results into comparison
// tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/weiihann/algogauge/harness"
	"github.com/weiihann/algogauge/record"
)

// Generate writes a markdown comparison table for the given results.
func Generate(w io.Writer, runID string, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	failures := checkVerified(results)
	fastest := findFastest(results)

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	if runID != "" {
		fmt.Fprintf(w, "Run: `%s`\n", runID)
		fmt.Fprintln(w)
	}

	// Verification check.
	if len(failures) == 0 {
		fmt.Fprintln(w, "Verification: **all passed**")
	} else {
		fmt.Fprintln(w, "Verification: **FAILED**")

		for _, f := range failures {
			fmt.Fprintf(w, "  - %s: %s/%s (%d)\n",
				f.Language, f.AlgorithmName, f.AlgorithmOption, f.AlgorithmLength)
		}
	}

	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| Language | Algorithm | Strategy | Length | Name "+
		"| Run Time | Wall | Verified | Speedup |")
	fmt.Fprintln(w, "|----------|-----------|----------|--------|------"+
		"|----------|------|----------|---------|")

	for _, res := range results {
		for i, r := range res.Records {
			wall := "-"
			if step, ok := res.StepFor(i); ok {
				wall = formatDuration(step.Wall)
			}

			fmt.Fprintf(w, "| %s | %s | %s | %d | %s | %s | %s | %s | %.2fx |\n",
				res.Language,
				r.AlgorithmName,
				r.AlgorithmOption,
				r.AlgorithmLength,
				orDash(r.AlgorithmCanonicalName),
				formatMs(float64(r.RunTimeMs)),
				wall,
				formatVerified(bool(r.Verified)),
				speedup(float64(r.RunTimeMs), fastest[r.Key()]),
			)
		}
	}

	fmt.Fprintln(w)

	// Process totals.
	fmt.Fprintln(w, "| Language | Units | Process Wall |")
	fmt.Fprintln(w, "|----------|-------|--------------|")

	for _, res := range results {
		fmt.Fprintf(w, "| %s | %d | %s |\n",
			res.Language,
			len(res.Records),
			formatDuration(res.WallTime),
		)
	}

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// checkVerified returns every unverified record, labelled with the
// language of the run that produced it.
func checkVerified(results []harness.Result) []record.Record {
	var failures []record.Record

	for _, res := range results {
		for _, r := range res.Records {
			if !r.Verified {
				r.Language = res.Language
				failures = append(failures, r)
			}
		}
	}

	return failures
}

// findFastest returns the smallest positive run time per benchmark key.
func findFastest(results []harness.Result) map[record.Key]float64 {
	fastest := make(map[record.Key]float64)

	for _, res := range results {
		for _, r := range res.Records {
			ms := float64(r.RunTimeMs)
			if ms <= 0 {
				continue
			}

			key := r.Key()
			if best, ok := fastest[key]; !ok || ms < best {
				fastest[key] = ms
			}
		}
	}

	return fastest
}

func formatMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.3fms", ms)
	}

	return fmt.Sprintf("%.2fs", ms/1000)
}

func formatDuration(d time.Duration) string {
	return formatMs(float64(d) / float64(time.Millisecond))
}

func formatVerified(ok bool) string {
	if ok {
		return "yes"
	}

	return "**no**"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// speedup returns how many times slower ms is than the fastest run time,
// or 1 when either is unknown.
func speedup(ms, fastest float64) float64 {
	if fastest <= 0 || ms <= 0 || math.IsNaN(ms) {
		return 1
	}

	return ms / fastest
}
