// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultproc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eli-b/mapf/resultfmt"
)

// A MalformedRecordError is returned when a row lacks a usable value
// in a column it is keyed by.
type MalformedRecordError struct {
	Column string
	Value  string
	Msg    string
}

func (e *MalformedRecordError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("column %q: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("column %q: %s: %q", e.Column, e.Msg, e.Value)
}

// Category returns the grouping key of row, which is the integer
// value of column col.
func Category(row *resultfmt.Row, col string) (int, error) {
	v, ok := row.Get(col)
	if !ok {
		return 0, &MalformedRecordError{Column: col, Msg: "missing"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &MalformedRecordError{Column: col, Value: v, Msg: "not an integer"}
	}
	return n, nil
}
