// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eli-b/mapf/resultproc"
)

// A Summary holds the statistics computed by an Aggregator.
type Summary struct {
	// GroupBy is the column categories were taken from.
	GroupBy string

	// Threshold is the relevance threshold of the second pass.
	Threshold float64

	// Categories, Solvers, and Families list the categories seen,
	// the solvers seen, and the requested families present in the
	// input. Categories and Solvers are sorted.
	Categories []int
	Solvers    []string
	Families   []resultproc.Family

	// Exclusions lists the instances left out of averaging, in
	// input order.
	Exclusions []Exclusion

	rates *SuccessRates
	fair  *FairAverages
	all   map[metricKey]*Metric
}

// An Exclusion is an instance that was left out of averaging because
// relevant solvers failed on it.
type Exclusion struct {
	Category int
	Instance string
	Label    string // input label
	Line     int
	Failed   []string
}

func (e Exclusion) String() string {
	return fmt.Sprintf("id=%s - %s didn't solve it", e.Instance, strings.Join(e.Failed, ", "))
}

// SuccessRate returns the success rate of solver in category. It
// reports false if the solver was never run there.
func (s *Summary) SuccessRate(category int, solver string) (float64, bool) {
	return s.rates.Rate(category, solver)
}

// Runs returns the number of instances of category solver was run on.
func (s *Summary) Runs(category int, solver string) int {
	return s.rates.Runs(category, solver)
}

// Successes returns the number of instances of category solver solved.
func (s *Summary) Successes(category int, solver string) int {
	return s.rates.Successes(category, solver)
}

// Relevant reports whether solver's success rate in category exceeds
// the threshold.
func (s *Summary) Relevant(category int, solver string) bool {
	return s.fair.Relevant(category, solver)
}

// Average returns the mean of family for solver in category, taken
// over instances all relevant solvers solved. It reports false if
// there are no such measurements.
func (s *Summary) Average(category int, solver string, family resultproc.Family) (float64, bool) {
	return s.fair.Average(category, solver, family)
}

// Metric returns the measurements behind Average, or nil.
func (s *Summary) Metric(category int, solver string, family resultproc.Family) *Metric {
	return s.fair.Metric(category, solver, family)
}

// AllMetric returns every measurement of family for solver in
// category, regardless of other solvers, or nil.
func (s *Summary) AllMetric(category int, solver string, family resultproc.Family) *Metric {
	return s.all[metricKey{category, solver, family}]
}

// AllAverage returns the mean of AllMetric. It reports false if there
// are no measurements.
func (s *Summary) AllAverage(category int, solver string, family resultproc.Family) (float64, bool) {
	return s.AllMetric(category, solver, family).Mean()
}

// A Ranked is one entry of a ranking.
type Ranked struct {
	Solver string
	Value  float64
}

// RankSuccess returns the solvers run in category ordered by
// decreasing success rate.
func (s *Summary) RankSuccess(category int) []Ranked {
	var out []Ranked
	for _, solver := range s.Solvers {
		if rate, ok := s.SuccessRate(category, solver); ok {
			out = append(out, Ranked{solver, rate})
		}
	}
	sortRanked(out, true)
	return out
}

// RankAverage returns the solvers with an average of family in
// category ordered by increasing average.
func (s *Summary) RankAverage(category int, family resultproc.Family) []Ranked {
	var out []Ranked
	for _, solver := range s.Solvers {
		if avg, ok := s.Average(category, solver, family); ok {
			out = append(out, Ranked{solver, avg})
		}
	}
	sortRanked(out, false)
	return out
}

func sortRanked(rs []Ranked, desc bool) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Value != rs[j].Value {
			return (rs[i].Value > rs[j].Value) == desc
		}
		return rs[i].Solver < rs[j].Solver
	})
}
