// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	rows [][]cell
	cols int

	// Sep separates adjacent columns. If empty, two spaces are
	// used.
	Sep string
}

type cell struct {
	value string
	align align
}

type align int

const (
	alignLeft align = iota
	alignRight
)

// A CellOption modifies a cell.
type CellOption func(c *cell)

var (
	Left  CellOption = func(c *cell) { c.align = alignLeft }
	Right CellOption = func(c *cell) { c.align = alignRight }
)

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r := &t.rows[len(t.rows)-1]
	*r = append(*r, c)
	if len(*r) > t.cols {
		t.cols = len(*r)
	}
	return t
}

// Rows returns the number of rows in t.
func (t *Table) Rows() int {
	return len(t.rows)
}

// Format lays out table t and writes it to w. Trailing spaces are
// trimmed from every line.
func (t *Table) Format(w io.Writer) error {
	sep := t.Sep
	if sep == "" {
		sep = "  "
	}

	widths := make([]int, t.cols)
	for _, row := range t.rows {
		for i, c := range row {
			if n := utf8.RuneCountInString(c.value); n > widths[i] {
				widths[i] = n
			}
		}
	}

	bw := bufio.NewWriter(w)
	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for i, c := range row {
			if i > 0 {
				line.WriteString(sep)
			}
			pad := widths[i] - utf8.RuneCountInString(c.value)
			if c.align == alignRight {
				fmt.Fprintf(&line, "%*s%s", pad, "", c.value)
			} else {
				fmt.Fprintf(&line, "%s%*s", c.value, pad, "")
			}
		}
		bw.WriteString(strings.TrimRight(line.String(), " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
