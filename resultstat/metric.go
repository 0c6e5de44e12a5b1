// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"github.com/aclements/go-moremath/stats"
)

// A Metric holds the measurements of one metric family for one solver
// in one category.
type Metric struct {
	Values []float64 // measured values, in input order
	Sum    float64   // sum of Values
}

// Add records a measurement.
func (m *Metric) Add(x float64) {
	m.Values = append(m.Values, x)
	m.Sum += x
}

// Count returns the number of measurements. It is 0 for a nil Metric.
func (m *Metric) Count() int {
	if m == nil {
		return 0
	}
	return len(m.Values)
}

// Mean returns the mean of the measurements. It reports false if
// there are none.
func (m *Metric) Mean() (float64, bool) {
	if m.Count() == 0 {
		return 0, false
	}
	return stats.Mean(m.Values), true
}

// StdDev returns the sample standard deviation of the measurements.
// It reports false if there are fewer than two.
func (m *Metric) StdDev() (float64, bool) {
	if m.Count() < 2 {
		return 0, false
	}
	return stats.StdDev(m.Values), true
}

// Bounds returns the smallest and largest measurement. It reports
// false if there are none.
func (m *Metric) Bounds() (min, max float64, ok bool) {
	if m.Count() == 0 {
		return 0, 0, false
	}
	min, max = stats.Bounds(m.Values)
	return min, max, true
}
