// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultproc interprets the columns of MAPF result tables.
//
// Result tables name their per-solver columns "<Solver> <Metric>".
// Classify partitions a header into metric families keyed by solver,
// and Schema.Extract turns a row into per-solver outcomes: whether
// each solver ran on the instance, whether it succeeded, and its
// numeric measurements.
package resultproc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eli-b/mapf/resultfmt"
)

// Irrelevant is the cell value that marks a solver that was not run on
// an instance.
const Irrelevant = "irrelevant"

// A Schema maps the metric families of a header to their columns.
type Schema struct {
	// Solvers lists every solver that has at least one column, in
	// sorted order.
	Solvers []string

	columns [numFamilies]map[string]string
}

// Classify partitions column names into metric families. Columns that
// belong to no family are ignored.
func Classify(names []string) *Schema {
	s := new(Schema)
	seen := make(map[string]bool)
	for _, name := range names {
		fam, solver, ok := FamilyOf(name)
		if !ok {
			continue
		}
		if s.columns[fam] == nil {
			s.columns[fam] = make(map[string]string)
		}
		if _, dup := s.columns[fam][solver]; dup {
			continue
		}
		s.columns[fam][solver] = name
		if !seen[solver] {
			seen[solver] = true
			s.Solvers = append(s.Solvers, solver)
		}
	}
	sort.Strings(s.Solvers)
	return s
}

// Column returns the name of the column holding family f for solver.
func (s *Schema) Column(f Family, solver string) (string, bool) {
	if f < 0 || f >= numFamilies {
		return "", false
	}
	col, ok := s.columns[f][solver]
	return col, ok
}

// Has reports whether any solver has a column in family f.
func (s *Schema) Has(f Family) bool {
	return f >= 0 && f < numFamilies && len(s.columns[f]) > 0
}

// SolversOf returns the sorted solvers that have a column in family f.
func (s *Schema) SolversOf(f Family) []string {
	if !s.Has(f) {
		return nil
	}
	var out []string
	for solver := range s.columns[f] {
		out = append(out, solver)
	}
	sort.Strings(out)
	return out
}

// An Outcome is the result of one solver on one instance.
type Outcome struct {
	Solver string

	// Ran indicates the solver was run on the instance: its solution
	// cost cell is present and not Irrelevant.
	Ran bool

	// Succeeded indicates the solver's success cell is a nonzero
	// integer.
	Succeeded bool

	// Values holds the requested numeric measurements that are
	// present for the instance. It is nil if the solver did not run.
	Values map[Family]float64
}

// A ValueConversionError is returned when a cell of a metric column
// cannot be parsed.
type ValueConversionError struct {
	Column string
	Value  string
	Err    error
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("column %q: cannot parse %q: %v", e.Column, e.Value, e.Err)
}

func (e *ValueConversionError) Unwrap() error {
	return e.Err
}

// missing reports whether a cell holds no measurement.
func missing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == Irrelevant
}

// Extract returns the outcome of every solver in s.Solvers on row,
// in the same order. Values are parsed for the requested families of
// solvers that ran. An unparseable success cell, or an unparseable
// value of a solver that ran, makes the whole row fail with a
// *ValueConversionError.
func (s *Schema) Extract(row *resultfmt.Row, fams []Family) ([]Outcome, error) {
	out := make([]Outcome, len(s.Solvers))
	for i, solver := range s.Solvers {
		o := Outcome{Solver: solver}

		if col, ok := s.Column(SolutionCost, solver); ok {
			v, ok := row.Get(col)
			o.Ran = ok && !missing(v)
		}

		if col, ok := s.Column(Success, solver); ok {
			if v, ok := row.Get(col); ok && !missing(v) {
				succ, err := parseSuccess(v)
				if err != nil {
					return nil, &ValueConversionError{col, v, err}
				}
				o.Succeeded = succ
			}
		}

		if o.Ran {
			o.Values = make(map[Family]float64)
			for _, f := range fams {
				col, ok := s.Column(f, solver)
				if !ok {
					continue
				}
				v, ok := row.Get(col)
				if !ok || missing(v) {
					continue
				}
				x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return nil, &ValueConversionError{col, v, err}
				}
				o.Values[f] = x
			}
		}
		out[i] = o
	}
	return out, nil
}

// parseSuccess parses a success cell. Integers are the normal form;
// some writers emit floats such as "1.0".
func parseSuccess(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return n != 0, nil
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false, err
	}
	return x != 0, nil
}
