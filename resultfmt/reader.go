// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultfmt reads and writes tables of MAPF solver results.
//
// A result table is a CSV file with a header row. Each following row
// describes one problem instance and carries, for every solver that
// was evaluated, a group of columns named "<Solver> <Metric>", such
// as "CBS Success" or "CBS Runtime". This package deals only with the
// table structure; interpreting the columns is left to resultproc.
package resultfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// A Record is a single record read from a result table. It is either
// a *Row or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and
	// a 1-based line number within that file. If this record was
	// not read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

// A Header is the header row of a result table. All rows read from
// the same file share the same *Header.
type Header struct {
	// Names is the list of column names in file order.
	Names []string

	index map[string]int
}

// NewHeader returns a Header for the given column names. If a name
// appears more than once, lookups find its first occurrence.
func NewHeader(names []string) *Header {
	h := &Header{Names: names, index: make(map[string]int, len(names))}
	for i, name := range names {
		if _, ok := h.index[name]; !ok {
			h.index[name] = i
		}
	}
	return h
}

// Index returns the position of column name, or -1 if there is no
// such column.
func (h *Header) Index(name string) int {
	if i, ok := h.index[name]; ok {
		return i
	}
	return -1
}

// Equal reports whether h and o have the same column names.
func (h *Header) Equal(o *Header) bool {
	if h == o {
		return true
	}
	if h == nil || o == nil || len(h.Names) != len(o.Names) {
		return false
	}
	for i := range h.Names {
		if h.Names[i] != o.Names[i] {
			return false
		}
	}
	return true
}

// A Row is one data row of a result table.
type Row struct {
	Header *Header

	// Fields holds the raw field values in header order. A row may
	// have fewer fields than the header, in which case the trailing
	// columns are missing.
	Fields []string

	// Label identifies the input this row was read from. Files sets
	// it to the file's label; a bare Reader sets it to the file name.
	Label string

	fileName string
	line     int
}

// Get returns the raw value of column col in r. It reports false if
// the header has no such column or the row is too short to hold it.
func (r *Row) Get(col string) (string, bool) {
	i := r.Header.Index(col)
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	return r.Fields[i], true
}

// Pos returns the file name and line number of r.
func (r *Row) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// A SyntaxError represents a malformed line in a result table.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// A Reader reads a result table.
//
// Its API is modeled on bufio.Scanner. Unlike a bufio.Scanner, each
// *Row returned by Result is freshly allocated and may be retained by
// the caller.
type Reader struct {
	cr       *csv.Reader
	comma    rune
	fileName string
	label    string

	header *Header
	rec    Record
	err    error
}

// NewReader constructs a reader for the result table in r. fileName
// is used in error messages and row positions.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := &Reader{comma: ','}
	reader.Reset(r, fileName)
	return reader
}

// SetComma sets the field delimiter. It must be called before the
// first call to Scan and persists across calls to Reset.
func (r *Reader) SetComma(c rune) {
	r.comma = c
	if r.cr != nil {
		r.cr.Comma = c
	}
}

// Reset resets the reader to begin reading a new table from ior.
// label becomes the Label of every row read; if it is omitted, the
// file name is used.
func (r *Reader) Reset(ior io.Reader, fileName string, label ...string) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	if r.comma == 0 {
		r.comma = ','
	}
	r.cr = csv.NewReader(ior)
	r.cr.Comma = r.comma
	// Row length is checked against the header, not the first row.
	r.cr.FieldsPerRecord = -1
	r.fileName = fileName
	r.label = fileName
	if len(label) > 0 {
		r.label = label[0]
	}
	r.header = nil
	r.rec = noResult
	r.err = nil
}

// Header returns the header of the table being read, or nil if it has
// not been read yet.
func (r *Reader) Header() *Header {
	return r.header
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or an I/O error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.header == nil {
		fields, err := r.cr.Read()
		if err == io.EOF {
			return false
		} else if err != nil {
			r.err = fmt.Errorf("%s: reading header: %w", r.fileName, err)
			return false
		}
		r.header = NewHeader(fields)
	}

	fields, err := r.cr.Read()
	if err == io.EOF {
		return false
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		// The csv reader resynchronizes at the next line, so a
		// malformed line does not stop the table.
		r.rec = &SyntaxError{r.fileName, perr.StartLine, perr.Err.Error()}
		return true
	} else if err != nil {
		r.err = fmt.Errorf("%s: %w", r.fileName, err)
		return false
	}
	line, _ := r.cr.FieldPos(0)
	if n := len(r.header.Names); len(fields) > n {
		// Trailing empty fields come from rows written with a
		// terminating delimiter.
		for _, f := range fields[n:] {
			if f != "" {
				r.rec = &SyntaxError{r.fileName, line, fmt.Sprintf("row has %d fields, header has %d", len(fields), n)}
				return true
			}
		}
		fields = fields[:n]
	}
	r.rec = &Row{Header: r.header, Fields: fields, Label: r.label, fileName: r.fileName, line: line}
	return true
}

// Result returns the record that was just read by Scan. This is
// either a *Row or a *SyntaxError indicating a malformed row in the
// input file.
//
// If this returns a *SyntaxError, the error is not fatal and the
// caller may call Scan again to read the next row.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
