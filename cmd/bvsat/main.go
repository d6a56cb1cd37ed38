// Command bvsat runs the bit-vector/modular-arithmetic decision procedure
// against a line-oriented assertion script, in the spirit of the teacher's
// gophersat CLI (crillab/gophersat/main.go) but driving solver.Solver
// instead of a CNF solver.Problem.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/crillab/bvsat/solver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	timeoutSec int
	maxIter    int64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bvsat <script>",
		Short: "decide satisfiability of quantifier-free bit-vector constraints",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	flags := root.Flags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug-level solver progress")
	flags.IntVarP(&timeoutSec, "timeout", "t", 0, "abort and report indet after this many seconds (0 = no limit)")
	flags.Int64Var(&maxIter, "max-iterations", 0, "abort and report indet after this many search iterations (0 = no limit)")
	return root
}

func runSolve(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	script, err := ParseScript(f)
	if err != nil {
		return err
	}

	return script.RunWithLimits(cmd.OutOrStdout(), limiterFromFlags())
}

func limiterFromFlags() solver.ResourceLimiter {
	var limiters []solver.ResourceLimiter
	if timeoutSec > 0 {
		limiters = append(limiters, solver.TimeLimiter{Deadline: time.Now().Add(time.Duration(timeoutSec) * time.Second)})
	}
	if maxIter > 0 {
		limiters = append(limiters, solver.IterationLimiter{Max: maxIter})
	}
	switch len(limiters) {
	case 0:
		return nil
	case 1:
		return limiters[0]
	default:
		return solver.AnyOf(limiters...)
	}
}
