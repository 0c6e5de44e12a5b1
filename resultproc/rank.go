// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultproc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eli-b/mapf/resultfmt"
)

// A Ranker annotates rows with the order in which solvers finished.
//
// For a header with N runtime columns, it appends columns "1 place"
// through "N place". Cell i names the i'th fastest solver on the row,
// its runtime, and its speedup, which is the runtime of the next
// slower solver divided by its own (1 for the slowest). A solver with
// a zero runtime before a slower one has speedup "n/a".
type Ranker struct {
	in, out *resultfmt.Header
	cols    []rankColumn
}

type rankColumn struct {
	index  int
	solver string
}

// NewRanker returns a Ranker for rows with header h.
func NewRanker(h *resultfmt.Header) *Ranker {
	r := &Ranker{in: h}
	names := append([]string(nil), h.Names...)
	for i, name := range h.Names {
		if fam, solver, ok := FamilyOf(name); ok && fam == Runtime {
			r.cols = append(r.cols, rankColumn{i, solver})
		}
	}
	for i := range r.cols {
		names = append(names, fmt.Sprintf("%d place", i+1))
	}
	r.out = resultfmt.NewHeader(names)
	return r
}

// Header returns the header of ranked rows.
func (r *Ranker) Header() *resultfmt.Header {
	return r.out
}

type solverTime struct {
	solver  string
	runtime float64
}

// Rank returns a copy of row with the place columns filled in.
// Solvers whose runtime is missing are not ranked, leaving the last
// place cells empty.
func (r *Ranker) Rank(row *resultfmt.Row) (*resultfmt.Row, error) {
	var times []solverTime
	for _, col := range r.cols {
		if col.index >= len(row.Fields) || missing(row.Fields[col.index]) {
			continue
		}
		v := row.Fields[col.index]
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &ValueConversionError{r.in.Names[col.index], v, err}
		}
		times = append(times, solverTime{col.solver, x})
	}
	sort.Slice(times, func(i, j int) bool {
		if times[i].runtime != times[j].runtime {
			return times[i].runtime < times[j].runtime
		}
		return times[i].solver < times[j].solver
	})

	fields := make([]string, len(r.out.Names))
	copy(fields, row.Fields)
	base := len(r.in.Names)
	for i, st := range times {
		speedup := "1.000000"
		if i+1 < len(times) {
			if next := times[i+1].runtime; st.runtime != 0 {
				speedup = fmt.Sprintf("%f", next/st.runtime)
			} else if next != 0 {
				speedup = "n/a"
			}
		}
		fields[base+i] = fmt.Sprintf("%s runtime=%f speedup=%s", st.solver, st.runtime, speedup)
	}

	out := *row
	out.Header = r.out
	out.Fields = fields
	return &out, nil
}
