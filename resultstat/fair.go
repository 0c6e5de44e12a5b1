// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"github.com/eli-b/mapf/resultproc"
)

// A metricKey identifies one metric family of one solver in one
// category.
type metricKey struct {
	category int
	solver   string
	family   resultproc.Family
}

// A FairAverages accumulates measurements only from instances that
// every relevant solver solved, so that averages of different solvers
// in a category are taken over the same instances.
//
// A solver is relevant in a category if its success rate there is
// greater than Threshold. Rates must be complete before the first
// call to Observe.
type FairAverages struct {
	Rates     *SuccessRates
	Threshold float64

	metrics map[metricKey]*Metric
}

// NewFairAverages returns an accumulator that judges relevance by
// rates and threshold.
func NewFairAverages(rates *SuccessRates, threshold float64) *FairAverages {
	return &FairAverages{Rates: rates, Threshold: threshold}
}

// Relevant reports whether solver is relevant in category.
func (a *FairAverages) Relevant(category int, solver string) bool {
	rate, ok := a.Rates.Rate(category, solver)
	return ok && rate > a.Threshold
}

// Observe adds the outcomes of one instance of category. If a solver
// that is relevant and ran on the instance failed, nothing is added
// and Observe returns the failing solvers.
func (a *FairAverages) Observe(category int, outcomes []resultproc.Outcome) (failed []string) {
	var relevant []*resultproc.Outcome
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Ran || !a.Relevant(category, o.Solver) {
			continue
		}
		relevant = append(relevant, o)
		if !o.Succeeded {
			failed = append(failed, o.Solver)
		}
	}
	if len(failed) > 0 {
		return failed
	}

	if a.metrics == nil {
		a.metrics = make(map[metricKey]*Metric)
	}
	for _, o := range relevant {
		for fam, x := range o.Values {
			k := metricKey{category, o.Solver, fam}
			m := a.metrics[k]
			if m == nil {
				m = new(Metric)
				a.metrics[k] = m
			}
			m.Add(x)
		}
	}
	return nil
}

// Metric returns the accumulated measurements of family for solver in
// category, or nil if there are none.
func (a *FairAverages) Metric(category int, solver string, family resultproc.Family) *Metric {
	return a.metrics[metricKey{category, solver, family}]
}

// Average returns the mean of family for solver in category. It
// reports false if no instance contributed a measurement.
func (a *FairAverages) Average(category int, solver string, family resultproc.Family) (float64, bool) {
	return a.Metric(category, solver, family).Mean()
}
