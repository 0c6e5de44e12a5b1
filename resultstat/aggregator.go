// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultstat computes per-category statistics of MAPF solver
// result tables.
//
// An Aggregator makes two passes. The first pass, done as rows are
// added, counts runs and successes of every solver in every category
// and accumulates unfiltered measurements. The second pass, done by
// Summary, averages measurements only over instances that all
// relevant solvers of the category solved.
package resultstat

import (
	"fmt"
	"sort"

	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultproc"
)

// Config configures an Aggregator.
type Config struct {
	// GroupBy is the integer column rows are grouped by. If empty,
	// "Num Of Agents" is used.
	GroupBy string

	// Instance is the column that identifies an instance in
	// messages. If empty, "Instance Id" is used.
	Instance string

	// Threshold is the success rate a solver must exceed in a
	// category to be relevant there.
	Threshold float64

	// Families lists the numeric families to average. If nil,
	// resultproc.Counters is used.
	Families []resultproc.Family
}

const (
	DefaultGroupBy  = "Num Of Agents"
	DefaultInstance = "Instance Id"
)

// An Aggregator accumulates statistics from result rows.
type Aggregator struct {
	cfg Config

	schemas *resultproc.Cache[*resultfmt.Header, *resultproc.Schema]
	rates   SuccessRates
	all     map[metricKey]*Metric
	obs     []observation

	categories map[int]bool
	solvers    map[string]bool
	families   map[resultproc.Family]bool
}

// An observation is one accepted row, kept for the second pass.
type observation struct {
	category int
	instance string
	label    string
	line     int
	outcomes []resultproc.Outcome
}

// NewAggregator returns an empty aggregator.
func NewAggregator(cfg Config) *Aggregator {
	if cfg.GroupBy == "" {
		cfg.GroupBy = DefaultGroupBy
	}
	if cfg.Instance == "" {
		cfg.Instance = DefaultInstance
	}
	if cfg.Families == nil {
		cfg.Families = resultproc.Counters()
	}
	return &Aggregator{
		cfg: cfg,
		schemas: resultproc.NewCache(func(h *resultfmt.Header) (*resultproc.Schema, error) {
			return resultproc.Classify(h.Names), nil
		}),
		all:        make(map[metricKey]*Metric),
		categories: make(map[int]bool),
		solvers:    make(map[string]bool),
		families:   make(map[resultproc.Family]bool),
	}
}

// Config returns the configuration of a, with defaults filled in.
func (a *Aggregator) Config() Config {
	return a.cfg
}

// Add adds one row. If the row is malformed, Add returns an error
// that gives the row's position and records nothing from it.
func (a *Aggregator) Add(row *resultfmt.Row) error {
	schema, _ := a.schemas.Get(row.Header)
	instance, _ := row.Get(a.cfg.Instance)
	file, line := row.Pos()

	category, err := resultproc.Category(row, a.cfg.GroupBy)
	if err != nil {
		return fmt.Errorf("%s:%d: instance %s: %w", file, line, instance, err)
	}
	outcomes, err := schema.Extract(row, a.cfg.Families)
	if err != nil {
		return fmt.Errorf("%s:%d: %s=%d, instance %s: %w", file, line, a.cfg.GroupBy, category, instance, err)
	}

	a.categories[category] = true
	for _, f := range a.cfg.Families {
		if schema.Has(f) {
			a.families[f] = true
		}
	}
	for _, o := range outcomes {
		a.solvers[o.Solver] = true
		a.rates.Observe(category, o.Solver, o.Ran, o.Succeeded)
		for fam, x := range o.Values {
			k := metricKey{category, o.Solver, fam}
			m := a.all[k]
			if m == nil {
				m = new(Metric)
				a.all[k] = m
			}
			m.Add(x)
		}
	}
	a.obs = append(a.obs, observation{category, instance, row.Label, line, outcomes})
	return nil
}

// AddFiles adds every row of files. Malformed rows and syntax errors
// are passed to warn, if non-nil, and skipped. AddFiles returns only
// errors that stop reading, such as a missing file.
func (a *Aggregator) AddFiles(files *resultfmt.Files, warn func(error)) error {
	for files.Scan() {
		switch rec := files.Result(); rec := rec.(type) {
		case *resultfmt.SyntaxError:
			if warn != nil {
				warn(rec)
			}
		case *resultfmt.Row:
			if err := a.Add(rec); err != nil && warn != nil {
				warn(err)
			}
		}
	}
	return files.Err()
}

// Summary runs the second pass and returns the statistics of all rows
// added so far. The Summary shares counts with a and must not be used
// after further calls to Add; calling Summary again recomputes it.
func (a *Aggregator) Summary() *Summary {
	s := &Summary{
		GroupBy:   a.cfg.GroupBy,
		Threshold: a.cfg.Threshold,
		rates:     &a.rates,
		all:       a.all,
	}
	for c := range a.categories {
		s.Categories = append(s.Categories, c)
	}
	sort.Ints(s.Categories)
	for solver := range a.solvers {
		s.Solvers = append(s.Solvers, solver)
	}
	sort.Strings(s.Solvers)
	for _, f := range a.cfg.Families {
		if a.families[f] {
			s.Families = append(s.Families, f)
		}
	}

	s.fair = NewFairAverages(&a.rates, a.cfg.Threshold)
	for _, ob := range a.obs {
		if failed := s.fair.Observe(ob.category, ob.outcomes); failed != nil {
			s.Exclusions = append(s.Exclusions, Exclusion{
				Category: ob.category,
				Instance: ob.instance,
				Label:    ob.label,
				Line:     ob.line,
				Failed:   failed,
			})
		}
	}
	return s
}
