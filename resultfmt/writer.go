// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"encoding/csv"
	"fmt"
	"io"
)

// A Writer writes result tables.
type Writer struct {
	w      *csv.Writer
	header *Header
}

// NewWriter returns a writer that writes result rows to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// SetComma sets the field delimiter used for subsequent writes.
func (w *Writer) SetComma(c rune) {
	w.w.Comma = c
}

// Write writes Record rec to w. If rec is a *Row whose header differs
// from the last header written, it first writes the row's header.
// Syntax errors are ignored.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *Row:
		if !w.header.Equal(rec.Header) {
			if err := w.WriteHeader(rec.Header); err != nil {
				return err
			}
		}
		fields := rec.Fields
		if len(fields) < len(rec.Header.Names) {
			fields = make([]string, len(rec.Header.Names))
			copy(fields, rec.Fields)
		}
		return w.w.Write(fields)
	case *SyntaxError:
		// Ignore
		return nil
	default:
		return fmt.Errorf("unknown Record type %T", rec)
	}
}

// WriteHeader writes a header row.
func (w *Writer) WriteHeader(h *Header) error {
	w.header = h
	return w.w.Write(h.Names)
}

// WriteFields writes a raw row without checking it against the
// current header.
func (w *Writer) WriteFields(fields []string) error {
	return w.w.Write(fields)
}

// Flush writes any buffered data to the underlying io.Writer and
// returns the first error encountered by any write.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
