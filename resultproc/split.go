// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultproc

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/eli-b/mapf/resultfmt"
)

// A KeyFunc returns the output key of a row.
type KeyFunc func(row *resultfmt.Row) (string, error)

// ByColumn returns a KeyFunc that keys rows by the raw value of col.
func ByColumn(col string) KeyFunc {
	return func(row *resultfmt.Row) (string, error) {
		v, ok := row.Get(col)
		if !ok {
			return "", &MalformedRecordError{Column: col, Msg: "missing"}
		}
		return v, nil
	}
}

// BySolutionDepth returns a KeyFunc that keys rows by the first
// Solution Depth column, in header order, whose value is not -1. Rows
// where every solution depth is -1 are keyed "-1".
func BySolutionDepth() KeyFunc {
	var (
		header *resultfmt.Header
		cols   []int
	)
	return func(row *resultfmt.Row) (string, error) {
		if row.Header != header {
			header, cols = row.Header, nil
			for i, name := range header.Names {
				if strings.HasSuffix(name, SolutionDepth.Suffix()) {
					cols = append(cols, i)
				}
			}
		}
		for _, i := range cols {
			if i >= len(row.Fields) {
				continue
			}
			v := strings.TrimSpace(row.Fields[i])
			depth, err := strconv.Atoi(v)
			if err != nil {
				return "", &MalformedRecordError{Column: header.Names[i], Value: v, Msg: "not an integer"}
			}
			if depth != -1 {
				return strconv.Itoa(depth), nil
			}
		}
		return "-1", nil
	}
}

// SplitPath returns the output path for key when splitting the table
// at path: the path without its extension, then "_", prefix, key and
// ".csv".
func SplitPath(path, prefix, key string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "_" + prefix + key + ".csv"
}

// A Splitter distributes rows among output tables by key. Every output
// starts with the header of its first row, so each output is a valid
// table on its own.
type Splitter struct {
	key  KeyFunc
	outs *Cache[string, *splitOutput]
}

type splitOutput struct {
	wc io.WriteCloser
	w  *resultfmt.Writer
}

func (o *splitOutput) Close() error {
	err := o.w.Flush()
	if cerr := o.wc.Close(); err == nil {
		err = cerr
	}
	return err
}

// NewSplitter returns a splitter that keys rows with key and creates
// the output for each new key with create.
func NewSplitter(key KeyFunc, create func(key string) (io.WriteCloser, error)) *Splitter {
	return &Splitter{
		key: key,
		outs: NewCache(func(k string) (*splitOutput, error) {
			wc, err := create(k)
			if err != nil {
				return nil, err
			}
			return &splitOutput{wc, resultfmt.NewWriter(wc)}, nil
		}),
	}
}

// Write writes row to the output for its key.
func (s *Splitter) Write(row *resultfmt.Row) error {
	k, err := s.key(row)
	if err != nil {
		return err
	}
	out, err := s.outs.Get(k)
	if err != nil {
		return err
	}
	return out.w.Write(row)
}

// Keys returns the keys seen so far in first-use order.
func (s *Splitter) Keys() []string {
	return s.outs.Keys()
}

// Close flushes and closes every output.
func (s *Splitter) Close() error {
	return s.outs.Close()
}
