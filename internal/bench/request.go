// Package bench translates benchmark requests (test filters, submodule
// filters, revisions to compare) into one invocation of an external
// benchmarking tool and runs it with a prepared environment.
package bench

import (
	"math"
	"strconv"
	"strings"

	v1 "github.com/f9-o/devctl/api/v1"
	"github.com/f9-o/devctl/pkg/errs"
)

// MaxCompareRefs is the most revisions a comparison accepts.
const MaxCompareRefs = 2

// Request is one benchmark invocation as supplied on the command line.
type Request struct {
	Tests      []string
	Submodules []string
	Compare    []string
}

// Plan is the chosen tool invocation before revisions are resolved.
type Plan struct {
	Mode    v1.RunMode
	Before  string // compare mode only
	After   string // compare mode only
	Filters []string
}

// FilterArgs builds the tool's filter flags: one --bench value per non-empty
// category, with the category's names joined by a single space.
func FilterArgs(req Request) []string {
	var args []string
	for _, names := range [][]string{req.Tests, req.Submodules} {
		if len(names) == 0 {
			continue
		}
		args = append(args, "--bench", strings.Join(names, " "))
	}
	return args
}

// PlanFor chooses run or compare mode from the number of revisions given.
// One revision is compared against the working tree; more than two is an
// error.
func PlanFor(req Request) (Plan, error) {
	p := Plan{Filters: FilterArgs(req)}

	switch n := len(req.Compare); {
	case n == 0:
		p.Mode = v1.ModeRun
	case n == 1:
		p.Mode = v1.ModeCompare
		p.Before, p.After = req.Compare[0], v1.WorkingTree
	case n == MaxCompareRefs:
		p.Mode = v1.ModeCompare
		p.Before, p.After = req.Compare[0], req.Compare[1]
	default:
		return Plan{}, errs.Newf(errs.ErrInvalidArgs, "bench.plan",
			"too many commits to compare benchmarks for: got %d, at most %d allowed", n, MaxCompareRefs).
			WithAdvice("pass --compare once (against HEAD) or twice (BEFORE and AFTER)")
	}
	return p, nil
}

// RunArgs returns the tool arguments for a single dry run with the active
// interpreter.
func RunArgs(filters []string) []string {
	args := []string{"run", "--dry-run", "--show-stderr", "--python=same"}
	return append(args, filters...)
}

// CompareArgs returns the tool arguments for a continuous comparison of two
// resolved commits. threshold is the relative regression that fails the
// comparison (0.05 = 5%).
func CompareArgs(before, after string, threshold float64, filters []string) []string {
	args := []string{"continuous", "--show-stderr", "--factor", Factor(threshold), before, after}
	return append(args, filters...)
}

// Factor renders 1+threshold the way the tool expects it ("1.05" for 5%).
func Factor(threshold float64) string {
	f := math.Round((1+threshold)*1e6) / 1e6
	return strconv.FormatFloat(f, 'f', -1, 64)
}
