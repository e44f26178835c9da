// Package main provides the CLI entry point for algogauge, a cross-language
// sorting algorithm benchmarking tool.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/weiihann/algogauge/arrays"
	"github.com/weiihann/algogauge/gauge"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration errors to status 2 and everything else to 1.
func exitCode(err error) int {
	if errors.Is(err, gauge.ErrConfig) {
		return 2
	}

	return 1
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	root := &cobra.Command{
		Use:   "algogauge",
		Short: "Cross-language sorting algorithm benchmarking tool",
		Long: `AlgoGauge generates an input array, sorts it with a selected algorithm,
times the sort, verifies the result and emits a JSON record that can be compared
with records produced by the AlgoGauge implementations in other languages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(logger, level),
		newConductCmd(logger, level),
		newListCmd(),
	)

	return root
}

// unitFlags are the per-unit option lists shared by run and conduct.
type unitFlags struct {
	algorithms []string
	strategies []string
	lengths    []int
	names      []string
	maxValue   int
	seed       int64
	planPath   string
}

func (u *unitFlags) register(flags *pflag.FlagSet) {
	flags.StringArrayVarP(&u.algorithms, "algorithm", "a", nil,
		"Sort algorithm, repeat once per unit")
	flags.StringArrayVarP(&u.strategies, "strategy", "s", nil,
		"Array creation strategy, repeat once per unit")
	flags.IntSliceVarP(&u.lengths, "length", "l", nil,
		"Number of elements in the array, repeat once per unit")
	flags.StringArrayVarP(&u.names, "name", "y", nil,
		"Optional canonical name, repeat once per unit")
	flags.IntVarP(&u.maxValue, "max", "m", arrays.DefaultMaxValue,
		"Exclusive upper bound of generated values")
	flags.Int64Var(&u.seed, "seed", 0,
		"Random seed (0 = use current time)")
	flags.StringVar(&u.planPath, "plan", "",
		"YAML plan file listing units; per-unit flags replace its units")
}

// plan merges the plan file, if any, with the command line flags and
// validates the result.
func (u *unitFlags) plan(flags *pflag.FlagSet) (gauge.Plan, error) {
	var plan gauge.Plan

	if u.planPath != "" {
		var err error

		plan, err = gauge.LoadPlan(u.planPath)
		if err != nil {
			return gauge.Plan{}, err
		}
	}

	if len(u.algorithms) > 0 || len(u.strategies) > 0 || len(u.lengths) > 0 {
		specs, err := gauge.SpecsFromLists(
			u.algorithms, u.strategies, u.lengths, u.names,
		)
		if err != nil {
			return gauge.Plan{}, err
		}

		plan.Units = specs
	}

	switch {
	case flags.Changed("max"):
		plan.MaxValue = u.maxValue
	case plan.MaxValue == 0:
		plan.MaxValue = arrays.DefaultMaxValue
	}

	if flags.Changed("seed") {
		plan.Seed = u.seed
	}

	if err := plan.Validate(); err != nil {
		return gauge.Plan{}, err
	}

	return plan, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported algorithms and strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printChoices(cmd.OutOrStdout())
		},
	}
}
