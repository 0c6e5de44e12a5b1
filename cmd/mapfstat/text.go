// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/eli-b/mapf/internal/texttab"
	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultstat"
)

const absent = "n/a"

// A metric is one statistic reported per category and solver.
type metric struct {
	name  string
	value func(category int, solver string) (float64, bool)
	prec  int // digits after the decimal point
}

func (m *metric) format(category int, solver string) string {
	v, ok := m.value(category, solver)
	if !ok {
		return absent
	}
	return strconv.FormatFloat(v, 'f', m.prec, 64)
}

// metrics returns the success rate followed by the average of every
// family present in s.
func metrics(s *resultstat.Summary) []*metric {
	ms := []*metric{{"success rate", s.SuccessRate, 3}}
	for _, f := range s.Families {
		f := f
		ms = append(ms, &metric{
			name:  "average " + f.String(),
			value: func(c int, solver string) (float64, bool) { return s.Average(c, solver, f) },
			prec:  2,
		})
	}
	return ms
}

// ranSolvers returns the solvers of s that were run on some instance.
func ranSolvers(s *resultstat.Summary) []string {
	var out []string
	for _, solver := range s.Solvers {
		for _, c := range s.Categories {
			if s.Runs(c, solver) > 0 {
				out = append(out, solver)
				break
			}
		}
	}
	return out
}

func formatText(w io.Writer, s *resultstat.Summary) error {
	solvers := ranSolvers(s)
	for i, m := range metrics(s) {
		if i > 0 {
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "%s\n", m.name)
		var t texttab.Table
		t.Row().Cell(s.GroupBy)
		for _, solver := range solvers {
			t.Cell(solver, texttab.Right)
		}
		for _, c := range s.Categories {
			t.Row().Cell(strconv.Itoa(c))
			for _, solver := range solvers {
				t.Cell(m.format(c, solver), texttab.Right)
			}
		}
		if err := t.Format(w); err != nil {
			return err
		}
	}
	return nil
}

// formatSorted prints, for each category, the solvers ordered from
// best to worst by success rate and by each average.
func formatSorted(w io.Writer, s *resultstat.Summary) error {
	for i, c := range s.Categories {
		if i > 0 {
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "%s=%d\n", s.GroupBy, c)
		var t texttab.Table
		t.Row().Cell("success rate")
		for _, r := range s.RankSuccess(c) {
			t.Cell(fmt.Sprintf("%s=%.3f", r.Solver, r.Value))
		}
		for _, f := range s.Families {
			t.Row().Cell(f.String())
			for _, r := range s.RankAverage(c, f) {
				t.Cell(fmt.Sprintf("%s=%.2f", r.Solver, r.Value))
			}
		}
		if err := t.Format(w); err != nil {
			return err
		}
	}
	return nil
}

// formatCSV prints one row per category and solver that ran in it.
// Absent values are empty.
func formatCSV(w io.Writer, s *resultstat.Summary) error {
	cw := resultfmt.NewWriter(w)
	names := []string{s.GroupBy, "Solver", "Runs", "Successes", "Success Rate"}
	for _, f := range s.Families {
		names = append(names, f.String()+" Average")
	}
	if err := cw.WriteHeader(resultfmt.NewHeader(names)); err != nil {
		return err
	}
	for _, c := range s.Categories {
		for _, solver := range s.Solvers {
			runs := s.Runs(c, solver)
			if runs == 0 {
				continue
			}
			rate, _ := s.SuccessRate(c, solver)
			fields := []string{
				strconv.Itoa(c),
				solver,
				strconv.Itoa(runs),
				strconv.Itoa(s.Successes(c, solver)),
				formatFloat(rate),
			}
			for _, f := range s.Families {
				v, ok := s.Average(c, solver, f)
				if !ok {
					fields = append(fields, "")
					continue
				}
				fields = append(fields, formatFloat(v))
			}
			if err := cw.WriteFields(fields); err != nil {
				return err
			}
		}
	}
	return cw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
