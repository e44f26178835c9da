package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/weiihann/algogauge/arrays"
	"github.com/weiihann/algogauge/gauge"
	"github.com/weiihann/algogauge/handshake"
	"github.com/weiihann/algogauge/record"
)

const helperEnv = "ALGOGAUGE_TEST_HELPER"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestHelperProcess is not a real test. It acts as a benchmark child when
// re-executed by the tests below.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv(helperEnv)
	if mode == "" {
		return
	}

	os.Exit(helperMain(mode, helperArgs()))
}

func helperArgs() []string {
	for i, arg := range os.Args {
		if arg == "--" {
			return os.Args[i+1:]
		}
	}

	return nil
}

func helperMain(mode string, args []string) int {
	if mode == "fail" {
		fmt.Fprintln(os.Stderr, "option '-a, --algorithm' argument 'bogus' is invalid")

		return 1
	}

	if mode == "silent" {
		return 0
	}

	var (
		algorithms, strategies, names []string
		sizes                         []int
		perf                          bool
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a":
			i++
			algorithms = append(algorithms, args[i])
		case "-s":
			i++
			strategies = append(strategies, args[i])
		case "-l":
			i++
			n, _ := strconv.Atoi(args[i])
			sizes = append(sizes, n)
		case "-y":
			i++
			names = append(names, args[i])
		case "-p":
			perf = true
		}
	}

	specs, err := gauge.SpecsFromLists(algorithms, strategies, sizes, names)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	units := make([]*gauge.Unit, len(specs))
	for i, spec := range specs {
		if units[i], err = gauge.NewUnit(spec); err != nil {
			fmt.Fprintln(os.Stderr, err)

			return 1
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := gauge.SessionConfig{
		Language:  "Go",
		Generator: arrays.NewGenerator(arrays.Config{Seed: 1}),
		Logger:    logger,
	}
	if perf {
		cfg.Stepper = handshake.NewSyncer(os.Stdin, os.Stdout, logger)
	}

	records, err := gauge.NewSession(cfg).Execute(context.Background(), units)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	if err := record.Write(os.Stdout, record.FormatPseudoArray, records); err != nil {
		return 1
	}

	return 0
}

func helperRunner(t *testing.T, mode string, flags Flags) *Runner {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRunner("helper", CommandConfig{
		Binary:    os.Args[0],
		ExtraArgs: []string{"-test.run=TestHelperProcess", "--"},
		Env:       []string{helperEnv + "=" + mode},
		Flags:     flags,
	}, logger)
}

func testUnits() []gauge.Spec {
	return []gauge.Spec{
		{Algorithm: "bubble", Strategy: "ordered", Size: 5},
		{Algorithm: "quick", Strategy: "reversed", Size: 4, CanonicalName: "q"},
		{Algorithm: "merge", Strategy: "random", Size: 100},
	}
}

type stepCounter struct {
	steps int
}

func (s *stepCounter) ObserveStep(string, time.Duration) {
	s.steps++
}

func TestRunSynchronized(t *testing.T) {
	runner := helperRunner(t, "child", goFlags)
	counter := &stepCounter{}
	runner.Observer = counter

	result, err := runner.Run(context.Background(), RunConfig{
		Units:   testUnits(),
		Sync:    true,
		Timeout: time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "helper", result.Language)
	require.Len(t, result.Records, 3)
	assert.Len(t, result.Steps, 3)
	assert.Equal(t, 3, counter.steps)

	assert.Equal(t, "Bubble", result.Records[0].AlgorithmName)
	assert.Equal(t, "Ordered", result.Records[0].AlgorithmOption)
	assert.Equal(t, "q", result.Records[1].AlgorithmCanonicalName)
	assert.Equal(t, "Go", result.Records[2].Language)

	for _, rec := range result.Records {
		assert.Equal(t, record.Flag(true), rec.Verified)
		assert.GreaterOrEqual(t, float64(rec.RunTimeMs), 0.0)
	}

	step, ok := result.StepFor(2)
	assert.True(t, ok)
	assert.Equal(t, 2, step.Index)
	_, ok = result.StepFor(3)
	assert.False(t, ok)
}

func TestRunSynchronizedTokenInCanonicalName(t *testing.T) {
	runner := helperRunner(t, "child", goFlags)

	result, err := runner.Run(context.Background(), RunConfig{
		Units: []gauge.Spec{
			{Algorithm: "merge", Strategy: "random", Size: 3, CanonicalName: "READY?"},
			{Algorithm: "heap", Strategy: "random", Size: 3, CanonicalName: "DONE!"},
		},
		Sync:    true,
		Timeout: time.Minute,
	})
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Len(t, result.Steps, 2)
	assert.Equal(t, "READY?", result.Records[0].AlgorithmCanonicalName)
	assert.Equal(t, "DONE!", result.Records[1].AlgorithmCanonicalName)
}

func TestRunUnsynchronized(t *testing.T) {
	runner := helperRunner(t, "child", goFlags)

	result, err := runner.Run(context.Background(), RunConfig{Units: testUnits()})
	require.NoError(t, err)

	assert.Len(t, result.Records, 3)
	assert.Empty(t, result.Steps)
}

func TestRunSyncUnsupportedFallsBack(t *testing.T) {
	flags := goFlags
	flags.Perf = ""

	result, err := helperRunner(t, "child", flags).Run(context.Background(), RunConfig{
		Units: testUnits(),
		Sync:  true,
	})
	require.NoError(t, err)

	assert.Len(t, result.Records, 3)
	assert.Empty(t, result.Steps)
}

func TestRunChildFailure(t *testing.T) {
	for _, sync := range []bool{false, true} {
		_, err := helperRunner(t, "fail", goFlags).Run(context.Background(), RunConfig{
			Units: testUnits(),
			Sync:  sync,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
	}
}

func TestRunNoRecords(t *testing.T) {
	_, err := helperRunner(t, "silent", goFlags).Run(context.Background(), RunConfig{
		Units: testUnits(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result records")
}

func TestArgs(t *testing.T) {
	runner := NewRunner("deno", WrapCommand("deno", "AlgoGauge.mjs"),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	args := runner.Args(RunConfig{
		Units:    testUnits()[:2],
		MaxValue: 100,
		Sync:     true,
	})

	want := "run --allow-read AlgoGauge.mjs " +
		"-a bubble -s ordered -n 5 -y  " +
		"-a quick -s reversed -n 4 -y q " +
		"-m 100 -j -p"
	assert.Equal(t, want, strings.Join(args, " "))
}

func TestArgsPythonSkipsUnsupported(t *testing.T) {
	runner := NewRunner("python", WrapCommand("python", "pkg"),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	args := runner.Args(RunConfig{
		Units:    testUnits()[:1],
		MaxValue: 100,
		Sync:     true,
	})

	assert.Equal(t, []string{"pkg", "-a", "bubble", "-s", "ordered", "-l", "5", "-m", "100", "-j"}, args)
}

func TestParseRecordsFillsLanguage(t *testing.T) {
	input := `{"algorithmName":"Heap","algorithmOption":"Random","algorithmLength":3,"algorithmRunTime_ms":1.5,"perfData":{}}`

	records, err := parseRecords("cpp", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cpp", records[0].Language)
}

func TestParseRecordsInvalid(t *testing.T) {
	_, err := parseRecords("test", strings.NewReader("not json at all"))
	assert.Error(t, err)
}
