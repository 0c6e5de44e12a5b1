// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/eli-b/mapf/resultproc"
)

// Column names of the overview table.
const (
	OverviewCategory = "category"
	OverviewSolver   = "solver"
	OverviewRuns     = "runs"
	OverviewSuccess  = "mean success"
	OverviewRuntime  = "mean runtime"
)

// Overview returns a table of unfiltered per-solver statistics with
// one row per category and solver: the number of runs with a recorded
// runtime, the fraction of them that succeeded, and their mean
// runtime. Unlike Summary, it does not compare solvers on common
// instances. It returns nil if no solver has a recorded runtime.
func (a *Aggregator) Overview() table.Grouping {
	var (
		categories []int
		solvers    []string
		success    []float64
		runtime    []float64
	)
	for _, ob := range a.obs {
		for _, o := range ob.outcomes {
			rt, ok := o.Values[resultproc.Runtime]
			if !o.Ran || !ok {
				continue
			}
			categories = append(categories, ob.category)
			solvers = append(solvers, o.Solver)
			s := 0.0
			if o.Succeeded {
				s = 1
			}
			success = append(success, s)
			runtime = append(runtime, rt)
		}
	}
	if len(categories) == 0 {
		return nil
	}

	var tb table.Builder
	tb.Add("category", categories).Add("solver", solvers).Add("success", success).Add("runtime", runtime)
	g := table.Grouping(tb.Done())
	g = ggstat.Agg("category", "solver")(ggstat.AggCount(OverviewRuns), ggstat.AggMean("success", "runtime")).F(g)
	g = table.SortBy(g, "category", "solver")

	// Agg keeps input columns that happen to be constant per group;
	// keep only the aggregates.
	t := table.Flatten(g)
	var out table.Builder
	for _, col := range []string{OverviewCategory, OverviewSolver, OverviewRuns, OverviewSuccess, OverviewRuntime} {
		out.Add(col, t.MustColumn(col))
	}
	return out.Done()
}
