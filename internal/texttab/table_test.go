// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		tab = Table{}
	}

	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Padding, without trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a     b  c\nlong  e  long\n")

	// Alignment.
	tab.Row().Cell("agents", Left).Cell("CBS", Right).Cell("ICTS", Right)
	tab.Row().Cell("5").Cell("1.00", Right).Cell("n/a", Right)
	check("agents   CBS  ICTS\n5       1.00   n/a\n")

	// Short rows.
	tab.Row().Cell("a").Cell("b")
	tab.Row().Cell("c")
	check("a  b\nc\n")

	// Separator.
	tab.Sep = " | "
	tab.Row().Cell("☃").Cell("x")
	tab.Row().Cell("yy").Cell("z")
	check("☃  | x\nyy | z\n")
}
