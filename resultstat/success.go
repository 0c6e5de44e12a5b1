// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

// A key identifies one solver in one category.
type key struct {
	category int
	solver   string
}

// A SuccessRates counts, per category and solver, how often the
// solver was run and how often it succeeded.
//
// The zero value is ready to use.
type SuccessRates struct {
	runs      map[key]int
	successes map[key]int
}

// Observe records one instance. Instances the solver was not run on
// are not counted.
func (s *SuccessRates) Observe(category int, solver string, ran, succeeded bool) {
	if !ran {
		return
	}
	if s.runs == nil {
		s.runs = make(map[key]int)
		s.successes = make(map[key]int)
	}
	k := key{category, solver}
	s.runs[k]++
	if succeeded {
		s.successes[k]++
	}
}

// Runs returns the number of instances of category that solver was
// run on.
func (s *SuccessRates) Runs(category int, solver string) int {
	return s.runs[key{category, solver}]
}

// Successes returns the number of instances of category that solver
// solved.
func (s *SuccessRates) Successes(category int, solver string) int {
	return s.successes[key{category, solver}]
}

// Rate returns the fraction of runs of solver in category that
// succeeded. It reports false if the solver was never run in the
// category.
func (s *SuccessRates) Rate(category int, solver string) (float64, bool) {
	k := key{category, solver}
	runs := s.runs[k]
	if runs == 0 {
		return 0, false
	}
	return float64(s.successes[k]) / float64(runs), true
}
