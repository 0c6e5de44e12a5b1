// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// A Files reads result rows from a sequence of input tables.
//
// Each row's Label is set to the label of the input it came from. By
// default, this is the path directly from Paths, except that duplicate
// paths are disambiguated by appending "#N". If AllowLabels is true,
// entries in Paths may be of the form label=path, and the label part
// is used as given.
type Files struct {
	// Paths lists the inputs.
	Paths []string

	// AllowStdin makes the path "-" name standard input, and an
	// empty Paths read standard input alone.
	AllowStdin bool

	// AllowLabels permits label=path entries in Paths.
	AllowLabels bool

	// Comma is the field delimiter. If zero, ',' is used.
	Comma rune

	// Open opens a path for reading. If nil, os.Open is used.
	// Commands set this to support remote objects.
	Open func(path string) (io.ReadCloser, error)

	started bool
	pending []input

	reader Reader
	cur    io.ReadCloser // nil between inputs
	stdin  bool          // cur is os.Stdin and must not be closed
	err    error
}

type input struct {
	path, label    string
	stdin, labeled bool
}

// parseInputs resolves the labels of f.Paths.
func (f *Files) parseInputs() []input {
	var ins []input
	if f.AllowStdin && len(f.Paths) == 0 {
		ins = append(ins, input{path: "-", label: "-", stdin: true})
	}
	uses := make(map[string]int)
	for _, p := range f.Paths {
		in := input{path: p, label: p}
		if i := strings.Index(p, "="); f.AllowLabels && i >= 0 {
			in.label, in.path, in.labeled = p[:i], p[i+1:], true
		} else {
			uses[p]++
		}
		in.stdin = f.AllowStdin && in.path == "-"
		ins = append(ins, in)
	}

	// Rows of a path given twice could not be told apart otherwise.
	next := make(map[string]int)
	for i := range ins {
		in := &ins[i]
		if in.labeled || uses[in.path] < 2 {
			continue
		}
		in.label = fmt.Sprintf("%s#%d", in.path, next[in.path])
		next[in.path]++
	}
	return ins
}

// openNext opens the next pending input. It reports false when there
// are none left or the input cannot be opened.
func (f *Files) openNext() bool {
	if len(f.pending) == 0 {
		return false
	}
	in := f.pending[0]
	f.pending = f.pending[1:]

	if in.stdin {
		f.cur, f.stdin = os.Stdin, true
	} else {
		open := f.Open
		if open == nil {
			open = func(p string) (io.ReadCloser, error) { return os.Open(p) }
		}
		rc, err := open(in.path)
		if err != nil {
			f.err = err
			return false
		}
		f.cur, f.stdin = rc, false
	}
	f.reader.Reset(f.cur, in.path, in.label)
	return true
}

func (f *Files) closeCur() {
	if !f.stdin {
		f.cur.Close()
	}
	f.cur = nil
}

// Scan advances to the next record of the input sequence and reports
// whether there is one, which Result returns. Scan returns false at the
// end of the last input or on an I/O error, which Err returns.
//
// An input that cannot be opened is an I/O error.
func (f *Files) Scan() bool {
	if !f.started {
		f.started = true
		f.pending = f.parseInputs()
		comma := f.Comma
		if comma == 0 {
			comma = ','
		}
		f.reader.SetComma(comma)
	}
	for f.err == nil {
		if f.cur == nil && !f.openNext() {
			return false
		}
		if f.reader.Scan() {
			return true
		}
		if err := f.reader.Err(); err != nil {
			f.err = err
			f.closeCur()
			return false
		}
		f.closeCur()
	}
	return false
}

// Result returns the record read by the last call to Scan.
func (f *Files) Result() Record {
	return f.reader.Result()
}

// Err returns the error that stopped Scan, or nil if Scan has not
// stopped or read every input to the end.
func (f *Files) Err() error {
	return f.err
}
